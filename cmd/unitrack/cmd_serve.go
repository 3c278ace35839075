package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yigit/unitrack/internal/server"
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, lgr, err := loadConfig()
	if err != nil {
		return err
	}
	srv, err := server.NewServerWithConfig(context.Background(), cfg, lgr)
	if err != nil {
		return err
	}
	return srv.Run()
}
