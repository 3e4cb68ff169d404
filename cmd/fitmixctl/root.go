package main

import (
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/logging"
)

type rootOptions struct {
	env        string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "fitmixctl",
		Short:         "FitMix admin tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			log.SetLevel(logging.GetLevel(opts.logLevel))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(newHashPasswordCmd())
	rootCmd.AddCommand(newValidateProgramCmd())
	rootCmd.AddCommand(newProgressCmd(opts))
	rootCmd.AddCommand(newCleanSessionsCmd(opts))

	return rootCmd
}
