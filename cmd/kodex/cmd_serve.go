package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"kodex/internal/httpapi"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Starts the HTTP API and a Prometheus /metrics endpoint. The listen
address defaults to $KODEX_HTTP_ADDR or :8080. SIGINT or SIGTERM drains
in-flight requests before exiting.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, cfg, logger, err := newService("web")
	if err != nil {
		return err
	}

	addr := cfg.HTTPAddr
	if serveFlags.addr != "" {
		addr = serveFlags.addr
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return httpapi.NewServer(svc, logger).ListenAndServe(ctx, addr)
}
