package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"tourcab/config"
)

var RootCmd = &cobra.Command{
	Use:   "tourcab",
	Short: "tour and cab booking backend",
	Long:  `tourcab serves the destination planner, booking requests, the contact email relay and the admin dashboard API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if v, _ := cmd.Flags().GetString("log-level"); v != "" {
			if err := level.UnmarshalText([]byte(v)); err != nil {
				level = slog.LevelInfo
			}
		}
		slog.SetDefault(config.NewLogger(level))
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
	RootCmd.AddCommand(suggestCommand())
	RootCmd.AddCommand(exportCommand())
	RootCmd.AddCommand(hashPasswordCommand())
}
