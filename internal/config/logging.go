package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the client logger: level from config, written to stderr
// and to a size-rotated file under the config dir.
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rotated := &lumberjack.Logger{
		Filename:   cfg.Path("client.log"),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
	return log
}
