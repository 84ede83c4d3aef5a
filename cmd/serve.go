package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hearthside/carekb/internal/api"
	"github.com/hearthside/carekb/internal/config"
	"github.com/hearthside/carekb/internal/observability"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides CAREKB_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()
	logger.Info("starting carekb", "version", Version)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("carekb", reg)

	service := newChatService(ctx, cfg, logger, metrics)

	ready := func(context.Context) error {
		if cfg.KnowledgeBaseID == "" {
			return config.ErrMissingKnowledgeBaseID
		}
		return nil
	}

	server := api.NewServer(service, ready, logger, metrics, observability.Handler(reg))
	return server.Run(ctx, addr)
}
