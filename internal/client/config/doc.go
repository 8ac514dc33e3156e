// Package config loads runtime configuration for the covy client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. COVY_* environment variables, after an optional .env file has been
//     loaded into the environment.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the remote API
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   local session database path
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	api_base_url: http://localhost:8000/api/v1
//	request_timeout: 60s
//	online_check_interval: 10s
//	session_db_path: covy.db
//	export_target: s3
//	s3_bucket: letters
//
// # Environment
//
//	COVY_API_URL, COVY_HEALTH_URL, COVY_REQUEST_TIMEOUT, COVY_SESSION_DB,
//	COVY_LOG_LEVEL, COVY_EXPORT_TARGET, COVY_EXPORT_DIR, COVY_S3_BUCKET,
//	COVY_S3_REGION, COVY_S3_BASE_ENDPOINT, COVY_S3_ACCESS_KEY,
//	COVY_S3_SECRET_KEY
//
// COVY_REQUEST_TIMEOUT accepts a duration ("45s") or a number of seconds.
package config
