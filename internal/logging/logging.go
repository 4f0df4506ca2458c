package logging

import (
	"io"
	"os"

	"github.com/a810439322/moneyup/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New initializes the application logger from config. Output always goes to
// stdout; when a log file is configured it is written as well, with rotation.
func New(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotated))
	} else {
		logger.SetOutput(os.Stdout)
	}

	return logger
}
