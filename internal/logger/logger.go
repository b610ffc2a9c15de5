// Package logger builds the logrus entry shared by every component.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/docmatch/internal/config"
)

// New creates a logger writing to stderr
func New(cfg config.LogConfig) (*logrus.Entry, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput creates a logger writing to w. Text output uses full
// timestamps; json output is meant for log shippers.
func NewWithOutput(cfg config.LogConfig, w io.Writer) (*logrus.Entry, error) {
	log := logrus.New()
	log.SetOutput(w)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		log.SetLevel(level)
	}

	return log.WithField("service", "docmatch"), nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
