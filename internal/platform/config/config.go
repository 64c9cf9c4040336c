// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort = 3000

	// DefaultMaxImageSize is the largest accepted upload (10 MiB).
	DefaultMaxImageSize = 10 << 20

	// DefaultMaxRequestSize leaves room for the metadata fields around a
	// maximum-size image.
	DefaultMaxRequestSize = DefaultMaxImageSize + 1<<20

	DefaultImagesDir = "./assets/quotations"
	DefaultIndexFile = "./assets/quotations.json"

	DefaultLayoutGap        = 16.0
	DefaultLayoutMaxColumns = 12

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// EnvPrefix prefixes every environment override, e.g. APP_SERVER_PORT.
	EnvPrefix = "APP_"

	// EnvProfile selects the configs/<profile>.yaml overlay.
	EnvProfile = "APP_ENVIRONMENT"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	Layout    LayoutConfig    `koanf:"layout"`
	CORS      CORSConfig      `koanf:"cors"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"min=0"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// StorageConfig locates the image directory and the JSON index.
type StorageConfig struct {
	ImagesDir    string `koanf:"images_dir"     validate:"required"`
	IndexFile    string `koanf:"index_file"     validate:"required"`
	MaxImageSize int64  `koanf:"max_image_size" validate:"required,min=1"`
}

// LayoutConfig holds defaults for the column layout endpoint.
type LayoutConfig struct {
	DefaultGap float64 `koanf:"default_gap" validate:"min=0"`
	MaxColumns int     `koanf:"max_columns" validate:"min=1,max=64"`
}

// CORSConfig controls cross-origin access. No origins means all origins.
type CORSConfig struct {
	Enabled        bool     `koanf:"enabled"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quotation-wall",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "60s",
		"server.write_timeout":    "60s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "30s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotation-wall.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quotation-wall",
		"telemetry.sampling_rate": 1.0,

		"storage.images_dir":     DefaultImagesDir,
		"storage.index_file":     DefaultIndexFile,
		"storage.max_image_size": DefaultMaxImageSize,

		"layout.default_gap": DefaultLayoutGap,
		"layout.max_columns": DefaultLayoutMaxColumns,

		"cors.enabled":         true,
		"cors.allowed_origins": []string{"*"},
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, dir+"/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, fmt.Sprintf("%s/%s.yaml", dir, profile)); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// Profile returns the profile named by APP_ENVIRONMENT, or "local".
func Profile() string {
	if p := os.Getenv(EnvProfile); p != "" {
		return p
	}

	return "local"
}

// envMapper maps APP_STORAGE_IMAGES_DIR to storage.images_dir by matching
// against the known keys, since key names themselves contain underscores.
// Unknown variables fall back to replacing every underscore with a dot.
// List values are comma separated.
func envMapper(known []string) func(string, string) (string, any) {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name, value string) (string, any) {
		name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))

		key, ok := byEnv[name]
		if !ok {
			key = strings.ReplaceAll(name, "_", ".")
		}

		if _, isList := listKeys[key]; isList {
			return key, splitList(value)
		}

		return key, value
	}
}

var listKeys = map[string]struct{}{
	"cors.allowed_origins": {},
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
