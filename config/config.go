// Package config loads the service configuration from a YAML file, with
// environment-variable overrides for the settings that change between a
// laptop and a deployment.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration.
type Config struct {
	Listen    string          `yaml:"listen"`
	DBPath    string          `yaml:"db_path"`
	Assistant AssistantConfig `yaml:"assistant"`
	Browser   BrowserConfig   `yaml:"browser"`
	Speech    SpeechConfig    `yaml:"speech"`
}

// AssistantConfig points at the local assistant service.
type AssistantConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// BrowserConfig controls the Chrome connection.
type BrowserConfig struct {
	Remote   string `yaml:"remote"`   // WebSocket URL of an external Chrome; empty = launch locally
	Headless bool   `yaml:"headless"` // for a locally launched Chrome
	StartURL string `yaml:"start_url"`
}

// SpeechConfig sets the speech languages.
type SpeechConfig struct {
	RecognitionLang string `yaml:"recognition_lang"`
	SynthesisLang   string `yaml:"synthesis_lang"`
}

// LoadFile reads a YAML configuration file and applies defaults. A missing
// path yields the pure-default configuration.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8765"
	}
	if c.DBPath == "" {
		c.DBPath = "liseuse.db"
	}
	if c.Assistant.BaseURL == "" {
		c.Assistant.BaseURL = "http://localhost:3000"
	}
	if c.Assistant.Timeout <= 0 {
		c.Assistant.Timeout = 60 * time.Second
	}
	if c.Speech.RecognitionLang == "" {
		c.Speech.RecognitionLang = "en-US"
	}
	if c.Speech.SynthesisLang == "" {
		c.Speech.SynthesisLang = "en-GB"
	}
}
