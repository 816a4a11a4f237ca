package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nvale/rr-cache/internal/dns/common/clock"
	"github.com/nvale/rr-cache/internal/dns/common/log"
	"github.com/nvale/rr-cache/internal/dns/config"
	"github.com/nvale/rr-cache/internal/dns/gateways/transport"
	"github.com/nvale/rr-cache/internal/dns/gateways/upstream"
	"github.com/nvale/rr-cache/internal/dns/gateways/wire"
	"github.com/nvale/rr-cache/internal/dns/repos/lookupcache"
	"github.com/nvale/rr-cache/internal/dns/services/lookup"
)

const (
	version = "0.1.0-dev"
	appName = "rr-cached"
)

// Application holds the wired components of the caching forwarder.
type Application struct {
	config    *config.AppConfig
	transport *transport.UDPTransport
	responder *lookup.Responder
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":    version,
		"env":        cfg.Env,
		"log_level":  cfg.LogLevel,
		"port":       cfg.Port,
		"cache_size": cfg.CacheSize,
		"servers":    cfg.Servers,
		"dnssec":     cfg.DNSSEC,
	}, "Starting rr-cached")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "rr-cached stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()
	codec := wire.NewUDPCodec(logger)

	cache, err := lookupcache.NewShared(int(cfg.CacheSize))
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup cache: %w", err)
	}

	client, err := upstream.NewClient(upstream.Options{
		Servers:  cfg.Servers,
		Timeout:  time.Duration(cfg.UpstreamTimeout) * time.Second,
		Parallel: cfg.Parallel,
		DNSSEC:   cfg.DNSSEC,
		Codec:    codec,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream client: %w", err)
	}

	resolver, err := lookup.New(lookup.Options{
		Cache:  cache,
		Client: client,
		Clock:  clock.RealClock{},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build caching resolver: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	return &Application{
		config:    cfg,
		transport: transport.NewUDPTransport(addr, codec, logger),
		responder: lookup.NewResponder(resolver, logger),
	}, nil
}

// Run starts the transport and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.transport.Start(ctx, a.responder); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}

	<-ctx.Done()
	return a.transport.Stop()
}
