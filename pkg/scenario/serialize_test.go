package scenario

import (
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
)

func TestSchedule(t *testing.T) {
	entries := Schedule([]float64{3.9, 0.2, 7}, 5)
	require.Equal(t, []Entry{
		{NUsers: 3, SpawnRate: 5, Duration: 1},
		{NUsers: 0, SpawnRate: 5, Duration: 1},
		{NUsers: 7, SpawnRate: 5, Duration: 1},
	}, entries)
}

func TestEncodeJSON(t *testing.T) {
	out, err := EncodeJSON(Schedule([]float64{3.9}, 5))
	require.NoError(t, err)
	require.Equal(t, `[
  {
    "n_users": 3,
    "spawn_rate": 5,
    "duration": 1
  }
]`, string(out))
}

func TestConfigMapRoundTrip(t *testing.T) {
	scenarioJSON, err := EncodeJSON(Schedule([]float64{3.9, 880.4}, 5))
	require.NoError(t, err)

	out, err := EncodeConfigMap(ConfigMap(scenarioJSON, "test-scenario", "microservices-demo"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "apiVersion: v1\n"), "got:\n%s", out)
	require.Contains(t, string(out), "scenario.json: |-\n")

	var back corev1.ConfigMap
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, "test-scenario", back.Name)
	require.Equal(t, "microservices-demo", back.Namespace)

	// The mounted JSON must survive the YAML wrapping byte for byte.
	require.Equal(t, string(scenarioJSON), back.Data[ScenarioKey])
}

func TestConfigMapHashTracksContent(t *testing.T) {
	a := ConfigMap([]byte("[]"), "s", "ns").Annotations[HashAnnotation]
	b := ConfigMap([]byte("[]"), "s", "ns").Annotations[HashAnnotation]
	c := ConfigMap([]byte("[1]"), "s", "ns").Annotations[HashAnnotation]
	require.NotEmpty(t, a)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
