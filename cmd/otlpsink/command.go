// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/otlpsink/otlpsink/service"
)

func newCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "otlpsink",
		Short:         "Persist decoded OTLP export requests as newline-delimited JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runService(cmd.Context(), configPath)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML configuration file")
	cmd.AddCommand(newReplayCommand(&configPath))
	return cmd
}

func loadConfig(path string) (service.Config, error) {
	cfg := service.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("loading config file: %w", err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "mapstructure"}); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

func runService(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := service.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	logger.Info("otlpsink started", zap.String("output_directory", cfg.Pipeline.OutputDirectory))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case sig := <-stop:
		logger.Info("received signal", zap.Stringer("signal", sig))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.ShutdownGrace+2*time.Second)
	defer cancel()
	return svc.Shutdown(shutdownCtx)
}
