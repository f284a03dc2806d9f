package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.StageDelay)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.StageTimeout)
	assert.Equal(t, 3, cfg.Pipeline.StageAttempts)
	assert.Equal(t, 2, cfg.Pipeline.MaxRevisions)
	assert.Equal(t, 15*time.Minute, cfg.Pipeline.StaleAfter)
	assert.False(t, cfg.UseDatabase())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PIPELINE_STAGE_DELAY", "0s")
	t.Setenv("PIPELINE_MAX_REVISIONS", "5")
	t.Setenv("DB_HOST", "localhost")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.Pipeline.StageDelay)
	assert.Equal(t, 5, cfg.Pipeline.MaxRevisions)
	assert.True(t, cfg.UseDatabase())
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PIPELINE_STAGE_ATTEMPTS", "not-a-number")
	t.Setenv("PIPELINE_STAGE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.StageAttempts)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.StageTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		Pipeline: PipelineConfig{StageAttempts: 1},
	}
	require.NoError(t, cfg.Validate())

	cfg.Pipeline.StageAttempts = 0
	require.Error(t, cfg.Validate())

	cfg.Pipeline.StageAttempts = 1
	cfg.Pipeline.MaxRevisions = -1
	require.Error(t, cfg.Validate())

	cfg.Pipeline.MaxRevisions = 0
	cfg.Server.Port = ""
	require.Error(t, cfg.Validate())
}
