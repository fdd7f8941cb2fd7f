package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/netsniff/internal/api"
	"firestige.xyz/netsniff/internal/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP control API",
	Long: `Serve the capture controller over HTTP on api.listen.

Routes:
  GET    /interfaces        list capture interfaces
  POST   /capture/start     {"index": 0, "filter": "tcp"}
  POST   /capture/stop
  GET    /capture/status
  GET    /packets/new       records since the previous call
  GET    /packets           all buffered records
  DELETE /packets           clear the buffer
  GET    /stats/protocols   protocol distribution
  GET    /metrics           Prometheus metrics

The server stops on SIGINT/SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			exitWithError("serve failed", err)
		}
	},
}

func runServe() error {
	e, err := bootstrap(false, true)
	if err != nil {
		return err
	}
	defer e.shutdown()

	srv := api.NewServer("api", e.cfg.API.Listen, api.NewHandler(e.sniffer))
	if err := srv.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-srv.Err():
		return err
	case sig := <-quit:
		log.GetLogger().WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
