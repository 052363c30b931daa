package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLANNER_TIMEZONE", "")
	t.Setenv("PLANNER_WORKERS", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := load()
	require.NoError(t, err)
	require.NoError(t, cfg.validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Planner.Location.String())
	assert.Equal(t, 4, cfg.Planner.Workers)
	assert.Equal(t, 2500, cfg.Planner.MaxPairs)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("PLANNER_TIMEZONE", "Mars/Olympus_Mons")

	_, err := load()
	assert.Error(t, err)
}

func TestValidateShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	cfg, err := load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.validate(), "JWT_SECRET")
	assert.True(t, cfg.AdminEnabled())
}

func TestValidateWorkers(t *testing.T) {
	t.Setenv("PLANNER_WORKERS", "0")

	cfg, err := load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.validate(), "PLANNER_WORKERS")
}

func TestValidatePlanTTL(t *testing.T) {
	t.Setenv("REDIS_PLAN_TTL_MINUTES", "0")

	cfg, err := load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.validate(), "REDIS_PLAN_TTL_MINUTES")
}
