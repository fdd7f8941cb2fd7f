// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/netsniff/internal/core"
)

// GlobalConfig represents the top-level static configuration.
// Maps to the `netsniff:` root key in YAML.
type GlobalConfig struct {
	Log        LogConfig        `mapstructure:"log"`
	Capture    CaptureConfig    `mapstructure:"capture"`
	Store      StoreConfig      `mapstructure:"store"`
	Interfaces InterfacesConfig `mapstructure:"interfaces"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	API        APIConfig        `mapstructure:"api"`
	UI         UIConfig         `mapstructure:"ui"`
	Export     ExportConfig     `mapstructure:"export"`
}

// ─── Capture ───

// CaptureConfig configures the capture facility and the capture worker.
type CaptureConfig struct {
	Backend      string        `mapstructure:"backend"`        // pcap | afpacket
	SnapLen      int           `mapstructure:"snap_len"`       // Snapshot length (default 65535)
	Promiscuous  bool          `mapstructure:"promiscuous"`    // Requested, not required
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`   // Facility read timeout; bounds stop latency on idle links
	JoinTimeout  time.Duration `mapstructure:"join_timeout"`   // How long Stop waits for the worker
	BufferSizeMB int           `mapstructure:"buffer_size_mb"` // afpacket ring size
}

// ─── Store ───

// StoreConfig configures the packet store.
type StoreConfig struct {
	MaxPackets int `mapstructure:"max_packets"`
}

// ─── Interfaces ───

// InterfacesConfig configures interface enumeration.
type InterfacesConfig struct {
	ExcludePrefixes []string `mapstructure:"exclude_prefixes"` // Loopback and virtual adapters
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// ─── HTTP API ───

// APIConfig configures the HTTP control API served by `netsniff serve`.
type APIConfig struct {
	Listen string `mapstructure:"listen"`
}

// ─── Presentation ───

// UIConfig configures the terminal UI.
type UIConfig struct {
	Language        string        `mapstructure:"language"` // en | fa
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// ─── Export ───

// ExportConfig configures optional streaming of drained records.
type ExportConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Type     string            `mapstructure:"type"`     // nats | kafka
	Encoding string            `mapstructure:"encoding"` // json | protobuf
	NATS     NATSExportConfig  `mapstructure:"nats"`
	Kafka    KafkaExportConfig `mapstructure:"kafka"`
}

// NATSExportConfig contains NATS publisher settings.
type NATSExportConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// KafkaExportConfig contains Kafka writer settings.
type KafkaExportConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`  // MB
	MaxAgeDays int  `mapstructure:"max_age_days"` // Days
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `netsniff: ...`.
type configRoot struct {
	Netsniff GlobalConfig `mapstructure:"netsniff"`
}

// DefaultExcludePrefixes lists name prefixes of loopback and virtual adapters.
var DefaultExcludePrefixes = []string{"lo", "Loopback", "Teredo", "isatap", "Microsoft"}

// Load loads configuration from path. An empty path loads defaults and
// environment overrides only.
// The YAML file uses `netsniff:` as root key; env vars use the NETSNIFF_ prefix
// (e.g., NETSNIFF_CAPTURE_BACKEND).
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Key "netsniff.log.level" maps to env "NETSNIFF_LOG_LEVEL" through the replacer.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Netsniff

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file and no env overrides exist.
func Default() *GlobalConfig {
	cfg, err := Load("")
	if err != nil {
		// Defaults are static and always valid.
		panic(err)
	}
	return cfg
}

// setDefaults sets default values for configuration.
// All keys use "netsniff." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("netsniff.log.level", "info")
	v.SetDefault("netsniff.log.format", "text")
	v.SetDefault("netsniff.log.outputs.file.enabled", false)
	v.SetDefault("netsniff.log.outputs.file.path", "/var/log/netsniff/netsniff.log")
	v.SetDefault("netsniff.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("netsniff.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("netsniff.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("netsniff.log.outputs.file.rotation.compress", true)

	// Capture defaults
	v.SetDefault("netsniff.capture.backend", "pcap")
	v.SetDefault("netsniff.capture.snap_len", 65535)
	v.SetDefault("netsniff.capture.promiscuous", runtime.GOOS != "windows")
	v.SetDefault("netsniff.capture.read_timeout", "500ms")
	v.SetDefault("netsniff.capture.join_timeout", "2s")
	v.SetDefault("netsniff.capture.buffer_size_mb", 8)

	// Store defaults
	v.SetDefault("netsniff.store.max_packets", 1000)

	// Interface defaults
	v.SetDefault("netsniff.interfaces.exclude_prefixes", DefaultExcludePrefixes)

	// Metrics defaults
	v.SetDefault("netsniff.metrics.enabled", false)
	v.SetDefault("netsniff.metrics.listen", ":9091")
	v.SetDefault("netsniff.metrics.path", "/metrics")

	// API defaults
	v.SetDefault("netsniff.api.listen", "127.0.0.1:8088")

	// UI defaults
	v.SetDefault("netsniff.ui.language", "en")
	v.SetDefault("netsniff.ui.refresh_interval", "1s")

	// Export defaults
	v.SetDefault("netsniff.export.enabled", false)
	v.SetDefault("netsniff.export.type", "nats")
	v.SetDefault("netsniff.export.encoding", "json")
	v.SetDefault("netsniff.export.nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("netsniff.export.nats.subject", "netsniff.packets")
	v.SetDefault("netsniff.export.kafka.brokers", []string{})
	v.SetDefault("netsniff.export.kafka.topic", "netsniff-packets")
}

// ValidateAndApplyDefaults validates configuration and applies runtime defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: invalid log level: %s (must be debug/info/warn/error)", core.ErrConfigInvalid, cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("%w: invalid log format: %s (must be json/text)", core.ErrConfigInvalid, cfg.Log.Format)
	}

	// ── Capture validation ──
	switch cfg.Capture.Backend {
	case "pcap", "afpacket":
	default:
		return fmt.Errorf("%w: unsupported capture.backend: %s (must be pcap/afpacket)", core.ErrConfigInvalid, cfg.Capture.Backend)
	}
	if cfg.Capture.SnapLen <= 0 {
		cfg.Capture.SnapLen = 65535
	}
	if cfg.Capture.JoinTimeout <= 0 {
		cfg.Capture.JoinTimeout = 2 * time.Second
	}
	if cfg.Capture.ReadTimeout <= 0 {
		cfg.Capture.ReadTimeout = 500 * time.Millisecond
	}
	if cfg.Capture.BufferSizeMB <= 0 {
		cfg.Capture.BufferSizeMB = 8
	}

	// ── Store validation ──
	if cfg.Store.MaxPackets < 0 {
		return fmt.Errorf("%w: store.max_packets must not be negative, got %d", core.ErrConfigInvalid, cfg.Store.MaxPackets)
	}
	if cfg.Store.MaxPackets == 0 {
		cfg.Store.MaxPackets = 1000
	}

	// ── UI validation ──
	if cfg.UI.Language != "en" && cfg.UI.Language != "fa" {
		return fmt.Errorf("%w: unsupported ui.language: %s (must be en/fa)", core.ErrConfigInvalid, cfg.UI.Language)
	}
	if cfg.UI.RefreshInterval <= 0 {
		cfg.UI.RefreshInterval = time.Second
	}

	// ── Export validation ──
	if cfg.Export.Enabled {
		if cfg.Export.Encoding != "json" && cfg.Export.Encoding != "protobuf" {
			return fmt.Errorf("%w: unsupported export.encoding: %s (must be json/protobuf)", core.ErrConfigInvalid, cfg.Export.Encoding)
		}
		switch cfg.Export.Type {
		case "nats":
			if cfg.Export.NATS.URL == "" || cfg.Export.NATS.Subject == "" {
				return fmt.Errorf("%w: export.nats.url and export.nats.subject are required when export.type=nats", core.ErrConfigInvalid)
			}
		case "kafka":
			if len(cfg.Export.Kafka.Brokers) == 0 {
				return fmt.Errorf("%w: export.kafka.brokers is required when export.type=kafka", core.ErrConfigInvalid)
			}
			if cfg.Export.Kafka.Topic == "" {
				return fmt.Errorf("%w: export.kafka.topic is required when export.type=kafka", core.ErrConfigInvalid)
			}
		default:
			return fmt.Errorf("%w: unsupported export.type: %s (must be nats/kafka)", core.ErrConfigInvalid, cfg.Export.Type)
		}
	}

	return nil
}
