package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"odoodesk/internal/api"
	"odoodesk/internal/certs"
	"odoodesk/internal/config"
	"odoodesk/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Fatalf("Failed to load configuration: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	e, err := api.NewServer(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	start := func() error { return e.Start(":" + cfg.Port) }
	if cfg.TLS {
		certPath, keyPath, err := certs.Ensure(cfg.CertDir, cfg.CertHosts...)
		if err != nil {
			log.Fatalf("Failed to prepare TLS certificate: %v", err)
		}
		log.WithField("cert", certPath).Info("Serving HTTPS")
		start = func() error { return e.StartTLS(":"+cfg.Port, certPath, keyPath) }
	}

	go func() {
		log.WithField("port", cfg.Port).WithField("odoo_url", cfg.OdooURL).Info("Starting Odoo Desk")
		if err := start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
