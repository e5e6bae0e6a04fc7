// Package config handles application configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName        = "asr-to-clipboard"
	configFileName = "config.yaml"
	apiKeyEnv      = "OPENAI_API_KEY"
)

var (
	// ErrMissingAPIKey is returned when neither the file nor the
	// environment provides an API key.
	ErrMissingAPIKey = errors.New("config: API key not found in configuration file or " + apiKeyEnv)

	// ErrInvalid wraps every other validation failure.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config represents the application configuration.
type Config struct {
	ASRModel ASRModelConfig `yaml:"asr_model"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
	Notify   bool           `yaml:"notify"`
}

// ASRModelConfig configures the transcription provider.
type ASRModelConfig struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"api_base_url"`
	ModelName  string        `yaml:"model_name"`
	Language   string        `yaml:"language"`
	Prompt     string        `yaml:"prompt"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// AudioConfig configures microphone capture.
type AudioConfig struct {
	SampleRate      int           `yaml:"sample_rate"`
	Device          string        `yaml:"device"`
	FramesPerBuffer int           `yaml:"frames_per_buffer"`
	RestartDelay    time.Duration `yaml:"restart_delay"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used for every field the file omits.
func Default() *Config {
	return &Config{
		ASRModel: ASRModelConfig{
			BaseURL:   "https://api.openai.com/v1",
			ModelName: "whisper-1",
			Timeout:   60 * time.Second,
		},
		Audio: AudioConfig{
			SampleRate:      44100,
			FramesPerBuffer: 1024,
			RestartDelay:    time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration at path, or the first existing default
// location when path is empty, and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := resolvePath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default, applies the environment fallback
// for the API key and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalid, err)
	}

	if cfg.ASRModel.APIKey == "" {
		cfg.ASRModel.APIKey = os.Getenv(apiKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a session.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ASRModel.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if err := c.ASRModel.validate(); err != nil {
		return fmt.Errorf("%w: asr_model: %v", ErrInvalid, err)
	}
	if err := c.Audio.validate(); err != nil {
		return fmt.Errorf("%w: audio: %v", ErrInvalid, err)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return fmt.Errorf("%w: logging: %v", ErrInvalid, err)
	}
	return nil
}

func (a *ASRModelConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL, got %q", a.BaseURL)
	}
	if a.ModelName == "" {
		return fmt.Errorf("model_name cannot be empty")
	}
	if a.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", a.Timeout)
	}
	if a.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", a.MaxRetries)
	}
	return nil
}

func (a *AudioConfig) validate() error {
	if a.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", a.SampleRate)
	}
	if a.FramesPerBuffer <= 0 {
		return fmt.Errorf("frames_per_buffer must be positive, got %d", a.FramesPerBuffer)
	}
	if a.RestartDelay < 0 {
		return fmt.Errorf("restart_delay cannot be negative, got %s", a.RestartDelay)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", l.Level)
	}
	return level, nil
}

// resolvePath returns ./config.yaml if it exists, otherwise the per-user
// config location. The per-user path is returned even when missing so the
// read error names it.
func resolvePath() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}
	return userConfigPath()
}

func userConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}
