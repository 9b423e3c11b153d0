// Package scenario maps preset names to load shapes and turns them into
// the artifacts the load client consumes: a minute by minute schedule in
// JSON and the ConfigMap manifest wrapping it.
package scenario

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/graz-dev/java-on-kubernetes/pkg/loadgen"
)

// Kind selects the generator a preset runs on.
type Kind string

const (
	KindProfile Kind = "profile"
	KindPhases  Kind = "phases"
)

var (
	// ErrUnknownPreset is returned for names missing from the registry.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrUnsupportedKind is returned for scenario kinds no generator handles.
	ErrUnsupportedKind = errors.New("unsupported scenario kind")
)

// Preset couples a generator config with the spawn rate handed to the
// load client. Only the config matching Kind is read.
type Preset struct {
	Kind      Kind
	SpawnRate int

	Profile loadgen.ProfileConfig
	Phases  loadgen.PhasesConfig
}

// Generate samples the preset's user series. Seed 0 draws a fresh series
// on every call, any other seed reproduces it, spikes included.
func (p Preset) Generate(seed int64) ([]float64, error) {
	rnd := loadgen.NewRand(seed)
	switch p.Kind {
	case KindProfile:
		return loadgen.GenerateProfile(rnd, p.Profile)
	case KindPhases:
		return loadgen.GeneratePhases(rnd, p.Phases)
	default:
		return nil, errors.Wrapf(ErrUnsupportedKind, "%q", string(p.Kind))
	}
}

// Generate samples the named built-in preset.
func Generate(name string, seed int64) ([]float64, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	return p.Generate(seed)
}

type PresetMap map[string]Preset

// Keys lists the preset names sorted for stable CLI output.
func (p PresetMap) Keys() (keys []string) {
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
