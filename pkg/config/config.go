// Package config loads interpreter settings from JSON, YAML or BCL files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oarkflow/bcl"
	"github.com/oarkflow/errors"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrUndetectable      = errors.New("unable to detect config format, please provide valid JSON, YAML, or BCL")
)

var logLevels = map[string]bool{
	"":      true,
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

type Config struct {
	Prompt     string       `json:"prompt" yaml:"prompt"`
	Strict     bool         `json:"strict" yaml:"strict"`
	LogLevel   string       `json:"log_level" yaml:"log_level"`
	CacheSize  int64        `json:"cache_size" yaml:"cache_size"`
	MaxDepth   int          `json:"max_depth" yaml:"max_depth"`
	Transcript string       `json:"transcript" yaml:"transcript"`
	Server     ServerConfig `json:"server" yaml:"server"`
}

type ServerConfig struct {
	Addr        string `json:"addr" yaml:"addr"`
	SessionTTL  string `json:"session_ttl" yaml:"session_ttl"`
	MaxSessions int    `json:"max_sessions" yaml:"max_sessions"`
}

func Default() Config {
	return Config{
		Prompt:    ">> ",
		LogLevel:  "info",
		CacheSize: 1024,
		MaxDepth:  10000,
		Server: ServerConfig{
			Addr:        ":3000",
			SessionTTL:  "30m",
			MaxSessions: 1000,
		},
	}
}

// TTL returns the idle lifetime of a server session. Zero means sessions
// never expire.
func (s ServerConfig) TTL() time.Duration {
	if s.SessionTTL == "" {
		return 0
	}
	d, err := time.ParseDuration(s.SessionTTL)
	if err != nil {
		return 0
	}
	return d
}

func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if !logLevels[strings.ToLower(cfg.LogLevel)] {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.CacheSize < 0 {
		return errors.New("cache_size must not be negative")
	}
	if cfg.MaxDepth < 0 {
		return errors.New("max_depth must not be negative")
	}
	if cfg.Server.SessionTTL != "" {
		d, err := time.ParseDuration(cfg.Server.SessionTTL)
		if err != nil {
			return fmt.Errorf("invalid server.session_ttl: %w", err)
		}
		if d < 0 {
			return errors.New("server.session_ttl must not be negative")
		}
	}
	if cfg.Server.MaxSessions < 0 {
		return errors.New("server.max_sessions must not be negative")
	}
	return nil
}

type decodeFunc func([]byte, any) error

func jsonDecode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func bclDecode(data []byte, v any) error {
	_, err := bcl.Unmarshal(data, v)
	return err
}

// Load reads path, choosing the decoder from its extension. Keys missing from
// the file keep their Default values.
func Load(path string) (*Config, error) {
	var fn decodeFunc
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		fn = yaml.Unmarshal
	case ".json":
		fn = jsonDecode
	case ".bcl":
		fn = bclDecode
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(raw, fn)
}

// Detect decodes text by trying JSON, then YAML, then BCL.
func Detect(text string) (*Config, error) {
	trimmed := []byte(strings.TrimSpace(text))
	for _, fn := range []decodeFunc{jsonDecode, yaml.Unmarshal, bclDecode} {
		cfg := Default()
		if fn(trimmed, &cfg) == nil {
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
	}
	return nil, ErrUndetectable
}

func decode(data []byte, fn decodeFunc) (*Config, error) {
	cfg := Default()
	if err := fn(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
