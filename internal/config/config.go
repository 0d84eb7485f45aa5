package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines pantry configuration.
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Transport string        `yaml:"transport"`
	Storage   StorageConfig `yaml:"storage"`
	DB        DBConfig      `yaml:"db"`
	Log       LogConfig     `yaml:"log"`
	Display   DisplayConfig `yaml:"display"`
	Strict    bool          `yaml:"strict"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects where the document lives. Path is used by the file
// backend; Document names the row used by the sqlite backend.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	Document string `yaml:"document"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type DisplayConfig struct {
	Locale        string `yaml:"locale"`
	DateLayout    string `yaml:"date_layout"`
	SectionOffset int    `yaml:"section_offset"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportStdio,
		Storage: StorageConfig{
			Backend:  BackendFile,
			Path:     "pantry.json",
			Document: "default",
		},
		DB: DBConfig{
			Path: "pantry.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			Locale:        "en",
			DateLayout:    "02/01/2006",
			SectionOffset: 1,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, and
// environment variables, in that order. path overrides PANTRY_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PANTRY_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PANTRY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PANTRY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PANTRY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if transport := os.Getenv("PANTRY_TRANSPORT"); transport != "" {
		cfg.Transport = transport
	}
	if backend := os.Getenv("PANTRY_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if storagePath := os.Getenv("PANTRY_STORAGE_PATH"); storagePath != "" {
		cfg.Storage.Path = storagePath
	}
	if dbPath := os.Getenv("PANTRY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PANTRY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("PANTRY_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if locale := os.Getenv("PANTRY_LOCALE"); locale != "" {
		cfg.Display.Locale = locale
	}
	if layout := os.Getenv("PANTRY_DATE_LAYOUT"); layout != "" {
		cfg.Display.DateLayout = layout
	}
	if strictStr := os.Getenv("PANTRY_STRICT"); strictStr != "" {
		strict, err := strconv.ParseBool(strictStr)
		if err != nil {
			return fmt.Errorf("invalid PANTRY_STRICT: %w", err)
		}
		cfg.Strict = strict
	}
	return nil
}

// Validate rejects unknown transports and backends and out-of-range numbers.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Transport)
	}
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is required for the file backend", ErrInvalidConfig)
		}
	case BackendSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("%w: db.path is required for the sqlite backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Display.SectionOffset < 0 {
		return fmt.Errorf("%w: display.section_offset must not be negative", ErrInvalidConfig)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
