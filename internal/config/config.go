// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Camera   CameraConfig   `yaml:"camera"`
	Speech   SpeechConfig   `yaml:"speech"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig configures the local HTTP/WebSocket server.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// CameraConfig configures frame capture.
type CameraConfig struct {
	DeviceID int `yaml:"device_id"`
	// MotionThreshold is the percentage of changed pixels required to wake
	// the pipeline from idle.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// SpeechConfig configures spoken feedback.
type SpeechConfig struct {
	Enabled bool   `yaml:"enabled"`
	Voice   string `yaml:"voice"`
}

// DatabaseConfig configures the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Camera: CameraConfig{DeviceID: 0, MotionThreshold: 1.0},
		Speech: SpeechConfig{Enabled: true},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults are used instead.
// Env vars use the prefix FORMCOACH_ and underscore-separated paths:
//
//	FORMCOACH_SERVER_HOST, FORMCOACH_SERVER_PORT, FORMCOACH_STATIC_DIR,
//	FORMCOACH_CAMERA_DEVICE, FORMCOACH_MOTION_THRESHOLD,
//	FORMCOACH_SPEECH_ENABLED, FORMCOACH_SPEECH_VOICE, FORMCOACH_DB_PATH
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORMCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FORMCOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FORMCOACH_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("FORMCOACH_CAMERA_DEVICE"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Camera.DeviceID = id
		}
	}
	if v := os.Getenv("FORMCOACH_MOTION_THRESHOLD"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Camera.MotionThreshold = threshold
		}
	}
	if v := os.Getenv("FORMCOACH_SPEECH_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Speech.Enabled = enabled
		}
	}
	if v := os.Getenv("FORMCOACH_SPEECH_VOICE"); v != "" {
		cfg.Speech.Voice = v
	}
	if v := os.Getenv("FORMCOACH_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Camera.MotionThreshold < 0 {
		return fmt.Errorf("negative motion threshold %g", c.Camera.MotionThreshold)
	}
	return nil
}
