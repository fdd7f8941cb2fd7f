package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"firestige.xyz/netsniff/internal/config"
)

// Init replaces the process logger according to cfg. Log lines go to stderr and,
// when enabled, to a rotated file.
func Init(cfg config.LogConfig) error {
	return initWithOutput(cfg, os.Stderr)
}

// InitFileOnly is Init without the console output. The terminal UI uses it so
// log lines do not draw over the screen.
func InitFileOnly(cfg config.LogConfig) error {
	return initWithOutput(cfg, nil)
}

func initWithOutput(cfg config.LogConfig, console io.Writer) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	l := logrus.New()
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	default:
		return fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	out := NewMultiWriter()
	if console != nil {
		out.Add(console)
	}
	if cfg.Outputs.File.Enabled {
		if cfg.Outputs.File.Path == "" {
			return fmt.Errorf("log.outputs.file.path is required when file output is enabled")
		}
		out.AddFileAppender(cfg.Outputs.File)
	}
	l.SetOutput(out)

	setLogger(&logrusAdapter{entry: logrus.NewEntry(l)})
	return nil
}

// parseLevel accepts debug, info, warn (or warning) and error in any case.
func parseLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return logrus.DebugLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("invalid log level: %q", s)
	}
}
