package main

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, ":3333", cfg.Addr)
	assert.Equal(t, ":9999", cfg.DiagAddr)
	assert.Equal(t, storeMemory, cfg.Store)
	assert.Equal(t, 500*time.Millisecond, cfg.latency().ListNotes)
	assert.Equal(t, 300*time.Millisecond, cfg.latency().CreateNote)
	assert.Equal(t, 300*time.Millisecond, cfg.latency().Deals)
}

func TestLoadConfigEnvAndFlags(t *testing.T) {
	t.Setenv(envPrefix+"ADDR", ":8080")
	t.Setenv(envPrefix+"STORE", storeSQLite)
	t.Setenv(envPrefix+"LIST_NOTES_LATENCY", "0s")

	cfg, err := loadConfig(newFlagSet(), []string{"-addr", ":9090", "-dev"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr, "flags win over env")
	assert.Equal(t, storeSQLite, cfg.Store)
	assert.True(t, cfg.Development)
	assert.Zero(t, cfg.ListNotesLatency)
}

func TestLoadConfigRejectsUnknownStore(t *testing.T) {
	_, err := loadConfig(newFlagSet(), []string{"-store", "redis"})
	assert.Error(t, err)
}
