package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/covyhq/covy/internal/flagx"
	"github.com/covyhq/covy/internal/timex"
)

// FileConfig is a DTO used for config file unmarshalling. Pointer fields
// tell an absent key apart from an empty one; timex.Duration lets files
// spell intervals as "30s" or as integer nanoseconds.
type FileConfig struct {
	APIBaseURL          *string         `json:"api_base_url" yaml:"api_base_url"`
	HealthURL           *string         `json:"health_url" yaml:"health_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	SessionDBPath       *string         `json:"session_db_path" yaml:"session_db_path"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
	ExportTarget        *string         `json:"export_target" yaml:"export_target"`
	ExportDir           *string         `json:"export_dir" yaml:"export_dir"`
	S3Bucket            *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region            *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey         *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey         *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
}

// parseFile overlays cfg with the file given by -c or -config. The format
// follows the extension: .yaml and .yml are YAML, anything else is JSON.
// Read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if err := decodeFile(path, data, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func decodeFile(path string, data []byte, fc *FileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, fc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.HealthURL, fc.HealthURL)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	setString(&cfg.SessionDBPath, fc.SessionDBPath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.ExportTarget, fc.ExportTarget)
	setString(&cfg.ExportDir, fc.ExportDir)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
