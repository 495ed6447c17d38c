package mpc

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPollInterval is the cadence the surrounding app refreshes at.
const DefaultPollInterval = time.Second * 30

// FileConfig is the daemon configuration read from disk.
type FileConfig struct {
	// UserID of the local party.
	UserID string `yaml:"user_id"`

	// PollSeconds between pending-request scans.
	PollSeconds int `yaml:"poll_seconds"`

	// ListenAddr of the HTTP surface. Empty disables it.
	ListenAddr string `yaml:"listen_addr"`
}

// PollInterval returns the configured scan cadence, defaulted when unset.
func (fc *FileConfig) PollInterval() time.Duration {
	if fc.PollSeconds <= 0 {
		return DefaultPollInterval
	}
	return time.Second * time.Duration(fc.PollSeconds)
}

// ConfigFromYAML loads a FileConfig from the given yaml file.
func ConfigFromYAML(path string) (*FileConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc := FileConfig{}
	err = yaml.Unmarshal(yamlFile, &fc)
	if err != nil {
		return nil, err
	}
	return &fc, nil
}
