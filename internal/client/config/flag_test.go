package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://api:9000/api/v1", "-t", "5", "-i", "30", "-d", "/tmp/s.db", "-l", "debug"},
			expected: &Config{
				APIBaseURL:          "http://api:9000/api/v1",
				RequestTimeout:      5 * time.Second,
				OnlineCheckInterval: 30 * time.Second,
				SessionDBPath:       "/tmp/s.db",
				LogLevel:            "debug",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-x", "1", "-i", "7", "-test.v"},
			expected: &Config{OnlineCheckInterval: 7 * time.Second},
		},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "1m"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsDurationsWithoutFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"covy", "-l", "warn"}
	config := &Config{RequestTimeout: 500 * time.Millisecond, OnlineCheckInterval: 2500 * time.Millisecond}

	parseFlags(config)

	assert.Equal(t, 500*time.Millisecond, config.RequestTimeout)
	assert.Equal(t, 2500*time.Millisecond, config.OnlineCheckInterval)
	assert.Equal(t, "warn", config.LogLevel)
}

func TestParseFlags_OverridesOnlyGivenDuration(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"covy", "-t", "3"}
	config := &Config{RequestTimeout: 500 * time.Millisecond, OnlineCheckInterval: 2500 * time.Millisecond}

	parseFlags(config)

	assert.Equal(t, 3*time.Second, config.RequestTimeout)
	assert.Equal(t, 2500*time.Millisecond, config.OnlineCheckInterval)
}
