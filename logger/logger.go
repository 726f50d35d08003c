// Package logger configures the process-wide logrus logger and hands out
// per-module child entries.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// Config controls the log output.
type Config struct {
	// Verbosity 0 (silent) to 5 (trace), the same scale as geth.
	Verbosity int
	// Format is "text" or "json".
	Format string
	Color  bool
	// SentryDSN enables error reporting when not empty.
	SentryDSN string
}

// DefaultConfig logs info and above as plain text.
func DefaultConfig() Config {
	return Config{
		Verbosity: 3,
		Format:    "text",
	}
}

var root = logrus.New()

// Root returns the process-wide logger.
func Root() *logrus.Logger {
	return root
}

// Module returns a child entry tagged with the subsystem name.
func Module(name string) *logrus.Entry {
	return root.WithField("module", name)
}

// Level maps a verbosity to a logrus level.
func Level(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.PanicLevel
	case verbosity == 1:
		return logrus.ErrorLevel
	case verbosity == 2:
		return logrus.WarnLevel
	case verbosity == 3:
		return logrus.InfoLevel
	case verbosity == 4:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Setup applies cfg to the root logger.
func Setup(cfg Config) error {
	return apply(root, cfg, os.Stderr)
}

func apply(l *logrus.Logger, cfg Config, out io.Writer) error {
	switch cfg.Format {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	l.SetOutput(out)
	l.SetLevel(Level(cfg.Verbosity))

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return fmt.Errorf("failed to set up sentry: %w", err)
		}
		hook.StacktraceConfiguration.Enable = true
		l.AddHook(hook)
	}
	return nil
}
