package config

import (
	"log"

	"go.uber.org/zap"
)

// Logger is replaced by InitLogger; the no-op default keeps packages usable in tests.
var Logger = zap.NewNop()

func InitLogger(cfg LogConfig) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Development {
		zc := zap.NewDevelopmentConfig()
		if err := zc.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
			zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		logger, err = zc.Build()
	} else {
		zc := zap.NewProductionConfig()
		if err := zc.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
			zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		logger, err = zc.Build()
	}
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	Logger = logger

	Logger.Info("✅ Zap logger initialized", zap.Bool("development", cfg.Development))
}
