package scenario

import (
	"bytes"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/graz-dev/java-on-kubernetes/pkg/loadgen"
)

// PresetFile is the YAML schema for user supplied presets. The kind picks
// which fields are read: avg_values, durations, day_length_hours, num_days
// and the sigma_* knobs belong to profile scenarios, phases to phase
// scenarios. Spike, threshold and floor settings apply to both.
type PresetFile struct {
	Name      string `yaml:"name"`
	Kind      Kind   `yaml:"kind"`
	SpawnRate int    `yaml:"spawn_rate"`

	AvgValues      [][]float64 `yaml:"avg_values"`
	Durations      []int       `yaml:"durations"`
	DayLengthHours float64     `yaml:"day_length_hours"`
	NumDays        int         `yaml:"num_days"`
	SigmaWeek      float64     `yaml:"sigma_week"`
	SigmaLow       float64     `yaml:"sigma_low"`
	SigmaHigh      float64     `yaml:"sigma_high"`

	Phases []loadgen.Phase `yaml:"phases"`

	LoadThreshold float64 `yaml:"load_threshold"`
	SpikeProb     float64 `yaml:"spike_prob"`
	SpikeMult     float64 `yaml:"spike_mult"`
	MinValue      float64 `yaml:"min_value"`
}

// UnmarshalYAML fills the canonical settings first, so absent keys keep
// them and explicit zeros win. Spikes stay off unless the file asks for
// them.
func (f *PresetFile) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*f = PresetFile{
		DayLengthHours: 24,
		NumDays:        7,
		SigmaWeek:      0.15,
		SigmaLow:       3,
		SigmaHigh:      80,
		LoadThreshold:  200,
		SpikeMult:      1.4,
		MinValue:       1,
	}
	type plain PresetFile
	return unmarshal((*plain)(f))
}

// ParsePreset decodes and validates one preset from file content. Unknown
// keys are rejected. The returned name is what the artifacts are named
// after.
func ParsePreset(content []byte) (string, Preset, error) {
	var f PresetFile
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.SetStrict(true)
	if err := dec.Decode(&f); err != nil {
		return "", Preset{}, errors.Wrap(err, "decode preset file")
	}

	if f.Name == "" {
		return "", Preset{}, errors.Wrap(loadgen.ErrBadConfig, "preset file carries no name")
	}
	if f.SpawnRate < 1 {
		return "", Preset{}, errors.Wrapf(loadgen.ErrBadConfig, "spawn rate %d, want at least 1", f.SpawnRate)
	}

	p := Preset{Kind: f.Kind, SpawnRate: f.SpawnRate}
	switch f.Kind {
	case KindProfile:
		p.Profile = loadgen.ProfileConfig{
			AvgValues:      f.AvgValues,
			Durations:      f.Durations,
			DayLengthHours: f.DayLengthHours,
			NumDays:        f.NumDays,
			SigmaWeek:      f.SigmaWeek,
			SigmaLow:       f.SigmaLow,
			SigmaHigh:      f.SigmaHigh,
			LoadThreshold:  f.LoadThreshold,
			SpikeProb:      f.SpikeProb,
			SpikeMult:      f.SpikeMult,
			MinValue:       f.MinValue,
		}
		if err := p.Profile.Validate(); err != nil {
			return "", Preset{}, err
		}
	case KindPhases:
		p.Phases = loadgen.PhasesConfig{
			Phases:        f.Phases,
			LoadThreshold: f.LoadThreshold,
			SpikeProb:     f.SpikeProb,
			SpikeMult:     f.SpikeMult,
			MinValue:      f.MinValue,
		}
		if err := p.Phases.Validate(); err != nil {
			return "", Preset{}, err
		}
	default:
		return "", Preset{}, errors.Wrapf(ErrUnsupportedKind, "%q", string(f.Kind))
	}
	return f.Name, p, nil
}
