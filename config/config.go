// Package config loads the prosody CLI configuration from a YAML file,
// PROSODY_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-prosody/logging"
	"github.com/RyanBlaney/sonido-prosody/prosody"
	"github.com/RyanBlaney/sonido-prosody/render"
)

// Config holds the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Analysis prosody.Config `mapstructure:"analysis"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Output   OutputConfig   `mapstructure:"output"`
}

// LogConfig controls the global logger
type LogConfig struct {
	Level string `mapstructure:"level"`
	Color bool   `mapstructure:"color"`
}

// OpenAIConfig holds classification client settings
type OpenAIConfig struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url"`
	ChatModel          string        `mapstructure:"chat_model"`
	TranscriptionModel string        `mapstructure:"transcription_model"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

// OutputConfig holds report defaults
type OutputConfig struct {
	Format string `mapstructure:"format"` // table, html, json or png
}

// DefaultConfig returns a new configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
		Analysis: prosody.DefaultConfig(),
		OpenAI: OpenAIConfig{
			BaseURL:            "https://api.openai.com/v1",
			ChatModel:          "gpt-4o",
			TranscriptionModel: "whisper-1",
			Timeout:            60 * time.Second,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Load reads configuration from configPath (or config.yaml in the working
// directory and ~/.config/prosody), then applies PROSODY_* environment
// overrides. OPENAI_API_KEY is honoured for the API key.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PROSODY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai.api_key", "PROSODY_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", "prosody"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Debug("Configuration loaded", logging.Fields{
		"component":   "config",
		"config_file": v.ConfigFileUsed(),
	})

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, error or fatal)", c.Log.Level)
	}

	if _, err := render.ForFormat(c.Output.Format); err != nil {
		return err
	}

	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("openai timeout must be positive, got %s", c.OpenAI.Timeout)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("invalid analysis config: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.color", defaults.Log.Color)

	a := defaults.Analysis
	v.SetDefault("analysis.max_audio_length_seconds", a.MaxAudioLengthSeconds)
	v.SetDefault("analysis.energy_frame_seconds", a.EnergyFrameSeconds)
	v.SetDefault("analysis.energy_hop_seconds", a.EnergyHopSeconds)
	v.SetDefault("analysis.smoothing_radius", a.SmoothingRadius)
	v.SetDefault("analysis.rise_threshold_ratio", a.RiseThresholdRatio)
	v.SetDefault("analysis.min_pause_seconds", a.MinPauseSeconds)
	v.SetDefault("analysis.pitch_frame_seconds", a.PitchFrameSeconds)
	v.SetDefault("analysis.pitch_hop_seconds", a.PitchHopSeconds)
	v.SetDefault("analysis.min_pitch_hz", a.MinPitchHz)
	v.SetDefault("analysis.max_pitch_hz", a.MaxPitchHz)
	v.SetDefault("analysis.pitch_workers", a.PitchWorkers)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", defaults.OpenAI.BaseURL)
	v.SetDefault("openai.chat_model", defaults.OpenAI.ChatModel)
	v.SetDefault("openai.transcription_model", defaults.OpenAI.TranscriptionModel)
	v.SetDefault("openai.timeout", defaults.OpenAI.Timeout)

	v.SetDefault("output.format", defaults.Output.Format)
}
