package scenarioplot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveWritesPNGs(t *testing.T) {
	dir := t.TempDir()
	values := []float64{40, 650, 470, 800, 360, 40}
	require.NoError(t, Save(values, dir, "probe"))

	for _, file := range []string{"workload_timeseries_probe.png", "workload_sorted_probe.png"} {
		b, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err, file)
		require.True(t, bytes.HasPrefix(b, []byte("\x89PNG")), "%s is not a PNG", file)
	}
}

func TestSaveSingleValue(t *testing.T) {
	require.NoError(t, Save([]float64{120}, t.TempDir(), "dot"))
}
