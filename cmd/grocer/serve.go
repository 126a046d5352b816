package main

import (
	"log/slog"

	"github.com/Veraticus/grocer/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shopping list over HTTP",
		Long: `Serve the shopping list as a JSON API with Prometheus metrics at /metrics.
Changes made through the API are saved to the database immediately.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(a.list, a.store, server.Config{
		Addr:           a.cfg.Server.Addr,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
	}, slog.Default())

	return srv.ListenAndServe(ctx)
}
