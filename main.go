package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cli "github.com/finvault/mpcx/cmd"
	"github.com/finvault/mpcx/mpc"
	"github.com/finvault/mpcx/storage"
)

func main() {
	command := &cobra.Command{
		Use: "mpcx",
	}
	addCliCmd(command)
	addDaemonCmd(command)

	err := command.Execute()
	if err != nil {
		panic(err)
	}
}

// addCliCmd starts an interactive sandbox session
func addCliCmd(command *cobra.Command) {
	var userID string

	cliCmd := &cobra.Command{
		Use:   "cli",
		Short: "Start an interactive MPC sandbox",
		Long:  "Start an interactive MPC sandbox, request computations between local users and inspect results",
		Args:  cobra.MinimumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.ErrorLevel)
			cli.StartCMD(userID)
		},
	}

	cliCmd.Flags().StringVarP(&userID, "user", "u", "alice", "User to start the session as")

	command.AddCommand(cliCmd)
}

// addDaemonCmd starts one party as daemon
func addDaemonCmd(command *cobra.Command) {
	var configPath string

	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start an MPC party as daemon",
		Long:  "Start an MPC party as daemon, polling for pending computation requests",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			conf, err := mpc.ConfigFromYAML(configPath)
			if err != nil {
				return err
			}
			return cli.StartDaemon(conf, storage.NewBasicStore())
		},
	}

	daemonCmd.Flags().StringVarP(&configPath, "config", "c", "conf.yaml", "Path to the daemon configuration")

	command.AddCommand(daemonCmd)
}
