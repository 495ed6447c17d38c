package mpc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_ConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	err := os.WriteFile(path, []byte(
		"user_id: alice\npoll_seconds: 10\nlisten_addr: 127.0.0.1:8080\n"), 0o600)
	require.NoError(t, err)

	conf, err := ConfigFromYAML(path)
	require.NoError(t, err)
	require.Equal(t, "alice", conf.UserID)
	require.Equal(t, time.Second*10, conf.PollInterval())
	require.Equal(t, "127.0.0.1:8080", conf.ListenAddr)
}

func Test_ConfigFromYAML_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	err := os.WriteFile(path, []byte("user_id: bob\n"), 0o600)
	require.NoError(t, err)

	conf, err := ConfigFromYAML(path)
	require.NoError(t, err)
	require.Equal(t, DefaultPollInterval, conf.PollInterval())
	require.Empty(t, conf.ListenAddr)
}

func Test_ConfigFromYAML_Missing_File(t *testing.T) {
	_, err := ConfigFromYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
