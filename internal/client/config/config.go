package config

import (
	"time"

	"github.com/covyhq/covy/internal/client/export"
)

// Config holds runtime settings for the covy client.
type Config struct {
	APIBaseURL          string
	HealthURL           string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	SessionDBPath       string
	LogLevel            string

	ExportTarget string
	ExportDir    string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1"
	c.HealthURL = "http://localhost:8000/health"
	c.RequestTimeout = 60 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.SessionDBPath = "covy.db"
	c.LogLevel = "info"
	c.ExportTarget = export.TargetFile
	c.ExportDir = "exports"
	c.S3Region = "us-east-1"
}

// S3 returns the settings of the S3 export target.
func (c *Config) S3() export.S3Config {
	return export.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file, the environment and command-line flags. Later sources take
// precedence over earlier ones. Invalid input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
