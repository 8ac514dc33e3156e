package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "COVY_"

// dotenvFile is loaded, when present, before the environment is read.
// Variables already set in the process environment win over the file.
var dotenvFile = ".env"

// parseEnv overlays cfg with COVY_* environment variables. Invalid
// durations panic.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(dotenvFile)

	envString(&cfg.APIBaseURL, "API_URL")
	envString(&cfg.HealthURL, "HEALTH_URL")
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := parseSeconds(v)
		if err != nil {
			panic(fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err))
		}
		cfg.RequestTimeout = d
	}
	envString(&cfg.SessionDBPath, "SESSION_DB")
	envString(&cfg.LogLevel, "LOG_LEVEL")
	envString(&cfg.ExportTarget, "EXPORT_TARGET")
	envString(&cfg.ExportDir, "EXPORT_DIR")
	envString(&cfg.S3Bucket, "S3_BUCKET")
	envString(&cfg.S3Region, "S3_REGION")
	envString(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	envString(&cfg.S3SecretKey, "S3_SECRET_KEY")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// parseSeconds accepts a Go duration ("45s") or a bare number of seconds.
func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
