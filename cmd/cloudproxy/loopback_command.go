package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/logging"
)

func newLoopbackCommand(ctx *commandContext) *cobra.Command {
	var socket string
	var verdict string

	cmd := &cobra.Command{
		Use:   "loopback",
		Short: "Serve a pass-through adaptation service on a unix socket",
		Long: `Serve a pass-through adaptation service on a unix socket.

Every request is answered by copying the original file to the rebuilt
location and reporting the configured verdict. Point adaptation.transport =
"rpc" at the same socket to exercise a gateway without a real service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := strings.TrimSpace(socket)
			if path == "" {
				path = cfg.Adaptation.Socket
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server, err := adaptation.NewServer(runCtx, path, adaptation.Loopback{Verdict: verdict}, logger)
			if err != nil {
				return fmt.Errorf("start loopback service: %w", err)
			}
			defer server.Close()
			server.Serve()

			logger.Info("loopback adaptation service ready",
				logging.String("socket", server.Path()),
				logging.String("verdict", verdict),
				logging.String(logging.FieldEventType, "loopback_ready"),
			)
			<-runCtx.Done()
			logger.Info("loopback adaptation service stopping", logging.String(logging.FieldEventType, "loopback_stopped"))
			return nil
		},
	}

	cmd.Flags().StringVar(&socket, "socket", "", "Socket path (defaults to adaptation.socket)")
	cmd.Flags().StringVar(&verdict, "verdict", "replace", "File outcome reported for every request (replace, unmodified, failed)")
	return cmd
}
