package loadgen

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

type PhaseKind string

const (
	Flat PhaseKind = "flat"
	Ramp PhaseKind = "ramp"
)

// Phase is one building block of a phase scenario, DurationMin minutes
// long. A flat phase hovers around Target, a ramp moves linearly from
// Start to Target. Sigma is the additive noise of every minute.
type Phase struct {
	Kind        PhaseKind `yaml:"kind"`
	DurationMin int       `yaml:"duration_min"`
	Target      float64   `yaml:"target"`
	Start       float64   `yaml:"start"`
	Sigma       float64   `yaml:"sigma"`
}

// UnmarshalYAML defaults Sigma to 3 so quiet phases can leave it out,
// while an explicit zero still wins.
func (p *Phase) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*p = Phase{Sigma: 3}
	type plain Phase
	return unmarshal((*plain)(p))
}

// PhasesConfig concatenates phases in order, with the shared spike pass
// applied over the whole series.
type PhasesConfig struct {
	Phases []Phase

	LoadThreshold float64
	SpikeProb     float64
	SpikeMult     float64
	MinValue      float64
}

// DefaultPhasesConfig returns the canonical phase settings, with spikes
// disabled, for the given phase list.
func DefaultPhasesConfig(phases ...Phase) PhasesConfig {
	return PhasesConfig{
		Phases:        phases,
		LoadThreshold: 200,
		SpikeProb:     0,
		SpikeMult:     1.0,
		MinValue:      1,
	}
}

// Validate reports ErrBadConfig for any setting the generator cannot act on.
func (c PhasesConfig) Validate() error {
	if len(c.Phases) == 0 {
		return errors.Wrap(ErrBadConfig, "no phases given")
	}
	for i, p := range c.Phases {
		switch p.Kind {
		case Flat, Ramp:
		default:
			return errors.Wrapf(ErrBadConfig, "phase %d has unknown kind %q", i, string(p.Kind))
		}
		if p.DurationMin < 1 {
			return errors.Wrapf(ErrBadConfig, "phase %d lasts %dmin, want at least 1min", i, p.DurationMin)
		}
		if p.Sigma < 0 {
			return errors.Wrapf(ErrBadConfig, "phase %d has negative sigma %v", i, p.Sigma)
		}
	}
	return nil
}

// GeneratePhases samples the per minute user counts for cfg. The slice
// holds one value per phase minute, phases in list order with no
// smoothing between them.
func GeneratePhases(rnd *rand.Rand, cfg PhasesConfig) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var values []float64
	for _, p := range cfg.Phases {
		switch p.Kind {
		case Flat:
			for s := 0; s < p.DurationMin; s++ {
				values = append(values, normal(rnd, p.Target, p.Sigma))
			}
		case Ramp:
			for _, base := range linspace(p.Start, p.Target, p.DurationMin) {
				values = append(values, base+normal(rnd, 0, p.Sigma))
			}
		}
	}

	clampMin(values, cfg.MinValue)
	injectSpikes(rnd, values, cfg.SpikeProb, cfg.SpikeMult, cfg.LoadThreshold)
	clampMin(values, cfg.MinValue)
	return values, nil
}

// linspace spreads n points evenly from start to stop, both included.
// floats.Span cannot handle a single point, a one minute ramp stays at
// its start value.
func linspace(start, stop float64, n int) []float64 {
	pts := make([]float64, n)
	if n == 1 {
		pts[0] = start
		return pts
	}
	return floats.Span(pts, start, stop)
}
