package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graz-dev/java-on-kubernetes/pkg/loadgen"
)

func TestParsePresetProfileDefaults(t *testing.T) {
	name, p, err := ParsePreset([]byte(`
name: workweek
kind: profile
spawn_rate: 25
avg_values:
- [40, 650, 470, 800, 360, 40]
durations: [6, 4, 2, 6, 2, 4]
`))
	require.NoError(t, err)
	require.Equal(t, "workweek", name)
	require.Equal(t, KindProfile, p.Kind)
	require.Equal(t, 25, p.SpawnRate)

	// Everything the file left out keeps its canonical value.
	require.Equal(t, 24.0, p.Profile.DayLengthHours)
	require.Equal(t, 7, p.Profile.NumDays)
	require.Equal(t, 0.15, p.Profile.SigmaWeek)
	require.Equal(t, 3.0, p.Profile.SigmaLow)
	require.Equal(t, 80.0, p.Profile.SigmaHigh)
	require.Equal(t, 200.0, p.Profile.LoadThreshold)
	require.Equal(t, 1.4, p.Profile.SpikeMult)
	require.Equal(t, 1.0, p.Profile.MinValue)

	// Spikes are opt in for files.
	require.Equal(t, 0.0, p.Profile.SpikeProb)
}

func TestParsePresetProfileExplicitZeroWins(t *testing.T) {
	_, p, err := ParsePreset([]byte(`
name: flatweek
kind: profile
spawn_rate: 1
avg_values:
- [40, 650, 470, 800, 360, 40]
durations: [6, 4, 2, 6, 2, 4]
sigma_week: 0
num_days: 2
`))
	require.NoError(t, err)
	require.Equal(t, 0.0, p.Profile.SigmaWeek)
	require.Equal(t, 2, p.Profile.NumDays)
}

func TestParsePresetPhases(t *testing.T) {
	name, p, err := ParsePreset([]byte(`
name: rush
kind: phases
spawn_rate: 50
spike_prob: 0.03
phases:
- kind: flat
  duration_min: 15
  target: 50
- kind: ramp
  duration_min: 5
  start: 50
  target: 850
  sigma: 0
`))
	require.NoError(t, err)
	require.Equal(t, "rush", name)
	require.Equal(t, KindPhases, p.Kind)
	require.Len(t, p.Phases.Phases, 2)

	require.Equal(t, loadgen.Flat, p.Phases.Phases[0].Kind)
	require.Equal(t, 3.0, p.Phases.Phases[0].Sigma, "omitted sigma should fall back to 3")
	require.Equal(t, 0.0, p.Phases.Phases[1].Sigma, "explicit zero sigma should stick")
	require.Equal(t, 0.0, p.Phases.Phases[0].Start)

	require.Equal(t, 0.03, p.Phases.SpikeProb)
	require.Equal(t, 1.4, p.Phases.SpikeMult)
	require.Equal(t, 200.0, p.Phases.LoadThreshold)
	require.Equal(t, 1.0, p.Phases.MinValue)
}

func TestParsePresetRejectsUnknownKeys(t *testing.T) {
	_, _, err := ParsePreset([]byte(`
name: typo
kind: phases
spawn_rate: 1
phasez:
- kind: flat
  duration_min: 5
  target: 10
`))
	require.Error(t, err)
}

func TestParsePresetUnsupportedKind(t *testing.T) {
	_, _, err := ParsePreset([]byte("name: x\nkind: sinusoid\nspawn_rate: 1\n"))
	require.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestParsePresetInvalidConfig(t *testing.T) {
	_, _, err := ParsePreset([]byte(`
name: broken
kind: profile
spawn_rate: 1
avg_values:
- [40]
durations: [6]
`))
	require.ErrorIs(t, err, loadgen.ErrBadConfig)
}

func TestParsePresetRequiresNameAndSpawnRate(t *testing.T) {
	_, _, err := ParsePreset([]byte("kind: phases\nspawn_rate: 1\nphases:\n- kind: flat\n  duration_min: 5\n  target: 10\n"))
	require.ErrorIs(t, err, loadgen.ErrBadConfig)

	_, _, err = ParsePreset([]byte("name: x\nkind: phases\nphases:\n- kind: flat\n  duration_min: 5\n  target: 10\n"))
	require.ErrorIs(t, err, loadgen.ErrBadConfig)
}
