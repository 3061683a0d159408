package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"tourcab/config"
	dbt "tourcab/db/db"
	"tourcab/mq/mq"
	"tourcab/web"
)

func serverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `This command starts the web server for the application.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") {
				slog.SetDefault(config.NewLogger(cfg.LogLevel))
			}

			isDev, _ := cmd.Flags().GetBool("dev")
			port, _ := cmd.Flags().GetString("port")
			storeMode, _ := cmd.Flags().GetString("store")
			mqMode, _ := cmd.Flags().GetString("mq")

			return web.Serve(context.Background(), web.ServiceConfig{
				IsDev:     isDev,
				Port:      port,
				StoreMode: dbt.Mode(storeMode),
				MqMode:    mq.Mode(mqMode),
			}, cfg)
		},
	}

	cmd.Flags().Bool("dev", false, "Run in development mode")
	cmd.Flags().String("port", "", "Port to run the web server on (default PORT or 8080)")
	cmd.Flags().String("store", "mem", "Booking store (mem, pg)")
	cmd.Flags().String("mq", "go_chan", "Message queue mode (go_chan, rabbitmq, gcp_pub_sub)")

	return cmd
}
