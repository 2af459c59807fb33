package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
rules:
  period_seconds: 900
  overtime_seconds: 240
engine:
  shootout:
    goal_base: 0.41
logger:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 900, cfg.Rules.PeriodSeconds)
	assert.Equal(t, 240, cfg.Rules.OvertimeSeconds)
	assert.Equal(t, 0.41, cfg.Engine.Shootout.GoalBase)
	assert.Equal(t, "debug", cfg.Logger.Level)

	def := config.Default()
	assert.Equal(t, def.Rules.Periods, cfg.Rules.Periods, "untouched keys keep their defaults")
	assert.Equal(t, def.Engine.Outcome.GoalBase, cfg.Engine.Outcome.GoalBase)
	assert.Equal(t, def.Calibration, cfg.Calibration)
}

func TestLoadRejectsValuesOutsideTags(t *testing.T) {
	path := writeConfig(t, `
rules:
  periods: 0
`)
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

func TestLoadRejectsCrossFieldViolations(t *testing.T) {
	path := writeConfig(t, `
rules:
  min_skaters: 6
`)
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_skaters")
}

func TestValidateCrossFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{
			name:   "skater floor above regulation",
			mutate: func(c *config.Config) { c.Rules.MinSkaters = 6 },
			want:   "min_skaters",
		},
		{
			name:   "skater cap below regulation",
			mutate: func(c *config.Config) { c.Rules.MaxSkaters = 4 },
			want:   "max_skaters",
		},
		{
			name: "assist probabilities overflow",
			mutate: func(c *config.Config) {
				c.Engine.Assist.ZeroProb = 0.7
				c.Engine.Assist.OneProb = 0.7
			},
			want: "assist probabilities",
		},
		{
			name: "faceoff clamp window empty",
			mutate: func(c *config.Config) {
				c.Engine.Faceoff.ClampMin = c.Engine.Faceoff.ClampMax
			},
			want: "faceoff clamp",
		},
		{
			name: "shootout clamp window empty",
			mutate: func(c *config.Config) {
				c.Engine.Shootout.ClampMin = c.Engine.Shootout.ClampMax + 0.1
			},
			want: "shootout clamp",
		},
		{
			name: "goal band inverted",
			mutate: func(c *config.Config) {
				c.Calibration.GoalsPerGameMin = c.Calibration.GoalsPerGameMax + 1
			},
			want: "goals per game band",
		},
		{
			name: "overtime band inverted",
			mutate: func(c *config.Config) {
				c.Calibration.OvertimeMin = c.Calibration.OvertimeMax + 0.1
			},
			want: "overtime band",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateSkipsLoggerSection(t *testing.T) {
	cfg := config.Default()
	cfg.Logger.Level = "chatty"
	assert.NoError(t, cfg.Validate(), "logger settings validate in logger.New, after defaulting")
}
