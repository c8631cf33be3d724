package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trivia-rounds/internal/domain"
)

// DefaultNamespace is the key the whole game record is stored under.
const DefaultNamespace = "quiz-game-storage"

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Game struct {
		TotalQuestions int    `yaml:"totalQuestions"`
		Namespace      string `yaml:"namespace"`
	} `yaml:"game"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads YAML config from path and fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Game.TotalQuestions <= 0 {
		c.Game.TotalQuestions = domain.DefaultTotalQuestions
	}
	if c.Game.Namespace == "" {
		c.Game.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
