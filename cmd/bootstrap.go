package cmd

import (
	"context"
	"fmt"
	"time"

	"firestige.xyz/netsniff/internal/api"
	"firestige.xyz/netsniff/internal/capture"
	"firestige.xyz/netsniff/internal/config"
	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/netif"
	"firestige.xyz/netsniff/internal/sniffer"
	"firestige.xyz/netsniff/internal/store"
)

// engine holds the wired components shared by the subcommands.
type engine struct {
	cfg     *config.GlobalConfig
	store   *store.Store
	sniffer *sniffer.Sniffer
	metrics *api.Server
}

// loadConfig loads the configuration and initializes logging. Console logging
// is skipped when quiet is set.
func loadConfig(quiet bool) (*config.GlobalConfig, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	initLog := log.Init
	if quiet {
		initLog = log.InitFileOnly
	}
	if err := initLog(cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

func newEnumerator(cfg *config.GlobalConfig) *netif.Enumerator {
	devices := capture.NewDevices()
	return netif.NewEnumerator(
		netif.WithExcludePrefixes(cfg.Interfaces.ExcludePrefixes),
		netif.WithFriendlyNamer(devices),
		netif.WithFallback(devices),
	)
}

// bootstrap wires config, logging, the capture facility, interface
// enumeration, the store and the controller. When metrics are enabled a
// standalone metrics listener is started, unless the API router will serve
// them on the same address.
func bootstrap(quiet, withAPI bool) (*engine, error) {
	cfg, err := loadConfig(quiet)
	if err != nil {
		return nil, err
	}

	facility, err := capture.New(cfg.Capture.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture backend: %w", err)
	}

	st := store.New(cfg.Store.MaxPackets)
	e := &engine{
		cfg:     cfg,
		store:   st,
		sniffer: sniffer.New(cfg.Capture, facility, newEnumerator(cfg), st),
	}

	if cfg.Metrics.Enabled && !(withAPI && cfg.Metrics.Listen == cfg.API.Listen) {
		srv := api.NewServer("metrics", cfg.Metrics.Listen, api.MetricsHandler(cfg.Metrics.Path))
		if err := srv.Start(); err != nil {
			return nil, fmt.Errorf("failed to start metrics server: %w", err)
		}
		e.metrics = srv
	}

	log.GetLogger().
		WithField("backend", cfg.Capture.Backend).
		WithField("max_packets", st.Capacity()).
		Debug("engine initialized")
	return e, nil
}

// shutdown stops the capture and the metrics server.
func (e *engine) shutdown() {
	e.sniffer.Stop()
	if e.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.metrics.Shutdown(ctx); err != nil {
			log.GetLogger().WithError(err).Warn("metrics server stop failed")
		}
	}
}
