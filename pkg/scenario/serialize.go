package scenario

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ScenarioKey is the ConfigMap data key the load client mounts.
const ScenarioKey = "scenario.json"

// HashAnnotation carries the xxhash of the schedule JSON, so a rollout
// can tell whether a re-applied ConfigMap actually changed the scenario.
const HashAnnotation = "java-on-kubernetes/scenario-hash"

// Entry is one schedule minute as the load client reads it.
type Entry struct {
	NUsers    int `json:"n_users"`
	SpawnRate int `json:"spawn_rate"`
	Duration  int `json:"duration"`
}

// Schedule converts sampled user counts into per minute entries, each one
// minute long. Counts are truncated toward zero.
func Schedule(values []float64, spawnRate int) []Entry {
	entries := make([]Entry, 0, len(values))
	for _, v := range values {
		entries = append(entries, Entry{NUsers: int(v), SpawnRate: spawnRate, Duration: 1})
	}
	return entries
}

// EncodeJSON renders the schedule exactly as it is mounted.
func EncodeJSON(entries []Entry) ([]byte, error) {
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal schedule")
	}
	return out, nil
}

// ConfigMap wraps the schedule JSON into the manifest the load client
// mounts. The JSON bytes land in the data verbatim.
func ConfigMap(scenarioJSON []byte, name, namespace string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ConfigMap",
			APIVersion: "v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Annotations: map[string]string{
				HashAnnotation: strconv.FormatUint(xxhash.Sum64(scenarioJSON), 16),
			},
		},
		Data: map[string]string{ScenarioKey: string(scenarioJSON)},
	}
}

// EncodeConfigMap renders the manifest as YAML.
func EncodeConfigMap(cm *corev1.ConfigMap) ([]byte, error) {
	out, err := yaml.Marshal(cm)
	if err != nil {
		return nil, errors.Wrap(err, "marshal configmap")
	}
	return out, nil
}
