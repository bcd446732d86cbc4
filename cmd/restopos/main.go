package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sahanw/restopos/config"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "restopos",
		Short:         "Restaurant POS synchronization service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), diagnoseCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Server.AppEnv == "development" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.Logger.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if cfg.Logger.Encoding != "" {
		zc.Encoding = cfg.Logger.Encoding
	}
	zc.DisableCaller = cfg.Logger.DisableCaller
	zc.DisableStacktrace = cfg.Logger.DisableStacktrace

	return zc.Build()
}
