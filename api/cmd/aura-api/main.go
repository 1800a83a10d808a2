package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"aura-check/api/internal/aura"
	"aura-check/api/internal/config"
	"aura-check/api/internal/handle"
	"aura-check/api/internal/httpserver"
	"aura-check/api/internal/logger"
	"aura-check/api/internal/metrics"
	"aura-check/api/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	logger.Setup(cfg.LogLevel)

	engine, err := vision.NewEngines(cfg).GetEngine(cfg.Provider)
	if err != nil {
		logger.WithError(err).Fatal("select engine")
	}
	pipeline := aura.New(engine, cfg.Credential())
	if err := pipeline.CheckCredential(); err != nil {
		// still serve: every analyze request reports the configuration error
		logger.WithField("provider", cfg.Provider).Warn("model credential is not set")
	}

	reg := metrics.NewRegistry()
	h := handle.New(pipeline, reg, cfg.MaxRequestBodySize)
	srv := httpserver.New(httpserver.Options{
		Addr:         cfg.Addr(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, httpserver.NewRouter(h, reg))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"provider": engine.Name(),
		"model":    engine.GetModel(),
		"addr":     cfg.Addr(),
	}).Info("aura-api starting")
	if err := httpserver.Run(ctx, srv); err != nil {
		logger.WithError(err).Error("http server stopped")
		os.Exit(1)
	}
}
