package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
)

func TestRunPresetWritesArtifacts(t *testing.T) {
	dir := t.TempDir()

	var plotted []float64
	values, err := RunPreset(log.NewNopLogger(), "1h_spike", RunOpts{
		OutputDir:     dir,
		Seed:          42,
		ConfigMapName: "test-scenario",
		Namespace:     "microservices-demo",
		Plot: func(v []float64, plotDir, name string) error {
			require.Equal(t, dir, plotDir)
			require.Equal(t, "1h_spike", name)
			plotted = v
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, values, 60)
	require.Equal(t, values, plotted)

	scenarioJSON, err := os.ReadFile(filepath.Join(dir, "1h_spike.json"))
	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal(scenarioJSON, &entries))
	require.Len(t, entries, 60)
	for i, e := range entries {
		require.Equal(t, 1, e.Duration, "minute %d", i)
		require.Equal(t, 50, e.SpawnRate, "minute %d", i)
		require.Equal(t, int(values[i]), e.NUsers, "minute %d", i)
	}

	cmBytes, err := os.ReadFile(filepath.Join(dir, "1h_spike.yaml"))
	require.NoError(t, err)
	var cm corev1.ConfigMap
	require.NoError(t, yaml.Unmarshal(cmBytes, &cm))
	require.Equal(t, "test-scenario", cm.Name)
	require.Equal(t, string(scenarioJSON), cm.Data[ScenarioKey])

	metaBytes, err := os.ReadFile(filepath.Join(dir, "1h_spike.meta.json"))
	require.NoError(t, err)
	var meta RunMeta
	require.NoError(t, json.Unmarshal(metaBytes, &meta))
	require.Equal(t, "1h_spike", meta.Preset)
	require.Equal(t, KindPhases, meta.Kind)
	require.Equal(t, int64(42), meta.Seed)
	require.Equal(t, 50, meta.SpawnRate)
	require.Equal(t, 60, meta.Minutes)
	require.Len(t, meta.ID, 26)
	require.NotEmpty(t, meta.Created)
}

func TestRunPresetReproducible(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	opts := RunOpts{OutputDir: first, Seed: 7, ConfigMapName: "s", Namespace: "ns"}
	_, err := RunPreset(log.NewNopLogger(), "thursday_3h", opts)
	require.NoError(t, err)

	opts.OutputDir = second
	_, err = RunPreset(log.NewNopLogger(), "thursday_3h", opts)
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(first, "thursday_3h.json"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(second, "thursday_3h.json"))
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}

func TestRunPresetUnknown(t *testing.T) {
	_, err := RunPreset(log.NewNopLogger(), "nope", RunOpts{OutputDir: t.TempDir()})
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestRunPresetPlotFailureSurfaces(t *testing.T) {
	_, err := RunPreset(log.NewNopLogger(), "linear_ramp", RunOpts{
		OutputDir: t.TempDir(),
		Seed:      1,
		Plot:      func([]float64, string, string) error { return errors.New("png broke") },
	})
	require.ErrorContains(t, err, "png broke")
}
