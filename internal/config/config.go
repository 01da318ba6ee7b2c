package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the runtime settings loaded from config/app.yaml.
type Config struct {
	Port          string `yaml:"port"`
	DBDriver      string `yaml:"db_driver"`
	DBDSN         string `yaml:"db_dsn"`
	SessionSecret string `yaml:"session_secret"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Port:          "8080",
		DBDriver:      "sqlite3",
		DBDSN:         "bboard.db",
		SessionSecret: "dev-secret-change-in-production",
	}
}

// Load reads a yaml config file. Environment variables PORT and
// SESSION_SECRET take precedence over the file values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.applyEnv()

	return config, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		c.SessionSecret = secret
	}
}
