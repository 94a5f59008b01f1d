package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "session.db", cfg.DatabasePath)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cmd", "-a", "https://api.example.com", "-t", "5"}

	cfg := LoadConfig()

	expected := &Config{
		ServerBaseURL:  "https://api.example.com",
		RequestTimeout: 5 * time.Second,
		DatabasePath:   "session.db",
	}
	require.Empty(t, cmp.Diff(expected, cfg))
}
