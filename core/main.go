package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metaverse-session/internal/config"
	"metaverse-session/pkg/logger"
	"metaverse-session/source/mailbox"
	"metaverse-session/source/ui"
)

const (
	VERSION = "1.0.0"
	AUTHOR  = "metaverse-session"
)

func main() {
	logger.Banner("Metaverse Session Core", VERSION)

	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("Configuration error: %v", err)
	}
	logger.SetLevel(parseLogLevel(cfg.LogLevel))

	logger.Info("Login URL: %s", cfg.LoginURL)
	logger.Info("UI listen address: %s", cfg.UIListenAddr)
	logger.Info("UI peer address: %s", cfg.UIPeerAddr)
	logger.Info("Viewer channel: %s version %s", cfg.Viewer.Channel, cfg.Viewer.Version)
	logger.Success("Configuration loaded successfully")

	uiConn, err := ui.Listen(cfg.UIListenAddr, cfg.UIPeerAddr)
	if err != nil {
		logger.Fatal("Failed to open UI transport: %v", err)
	}
	defer uiConn.Close()
	logger.Success("UI transport listening")

	box := mailbox.New(cfg, uiConn)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := box.Run(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		logger.Fatal("Session core error: %v", err)
	case sig := <-sigChan:
		logger.Warn("Received signal: %v", sig)
		logger.Info("Shutting down gracefully...")

		box.Stop()
		cancel()

		time.Sleep(200 * time.Millisecond)

		logger.Success("Session core stopped")
		os.Exit(0)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parseLogLevel(level string) int {
	switch level {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
