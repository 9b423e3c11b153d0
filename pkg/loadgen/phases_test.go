package loadgen

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/thanos-io/thanos/pkg/testutil"
)

func TestGenerateFlatPhaseWithoutNoise(t *testing.T) {
	cfg := DefaultPhasesConfig(Phase{Kind: Flat, DurationMin: 5, Target: 50, Sigma: 0})

	values, err := GeneratePhases(NewRand(1), cfg)
	testutil.Ok(t, err)
	testutil.Equals(t, []float64{50, 50, 50, 50, 50}, values)
}

func TestGenerateRampMonotonic(t *testing.T) {
	cfg := DefaultPhasesConfig(Phase{Kind: Ramp, DurationMin: 60, Start: 10, Target: 1500, Sigma: 0})

	values, err := GeneratePhases(NewRand(1), cfg)
	testutil.Ok(t, err)
	testutil.Equals(t, 60, len(values))
	testutil.Equals(t, 10.0, values[0])
	testutil.Assert(t, math.Abs(values[59]-1500) < 1e-9, "ramp should end at its target, got %v", values[59])
	for i := 1; i < len(values); i++ {
		testutil.Assert(t, values[i] >= values[i-1], "ramp decreased at minute %d", i)
	}
}

func TestGenerateSingleMinuteRamp(t *testing.T) {
	cfg := DefaultPhasesConfig(Phase{Kind: Ramp, DurationMin: 1, Start: 30, Target: 900, Sigma: 0})

	values, err := GeneratePhases(NewRand(1), cfg)
	testutil.Ok(t, err)
	testutil.Equals(t, []float64{30}, values)
}

func TestGeneratePhasesLengthAndOrder(t *testing.T) {
	cfg := DefaultPhasesConfig(
		Phase{Kind: Flat, DurationMin: 15, Target: 50, Sigma: 0},
		Phase{Kind: Ramp, DurationMin: 5, Start: 50, Target: 850, Sigma: 0},
		Phase{Kind: Flat, DurationMin: 20, Target: 850, Sigma: 0},
	)

	values, err := GeneratePhases(NewRand(2), cfg)
	testutil.Ok(t, err)
	testutil.Equals(t, 40, len(values))

	// Phases land in list order with no smoothing in between.
	testutil.Equals(t, 50.0, values[0])
	testutil.Equals(t, 50.0, values[14])
	testutil.Equals(t, 50.0, values[15])
	testutil.Equals(t, 850.0, values[20])
	testutil.Equals(t, 850.0, values[39])
}

func TestGeneratePhasesClampsToMinValue(t *testing.T) {
	cfg := DefaultPhasesConfig(Phase{Kind: Flat, DurationMin: 240, Target: 2, Sigma: 30})

	values, err := GeneratePhases(NewRand(4), cfg)
	testutil.Ok(t, err)
	for i, v := range values {
		testutil.Assert(t, v >= 1, "minute %d fell below the floor: %v", i, v)
	}
}

func TestGeneratePhasesDeterminism(t *testing.T) {
	cfg := DefaultPhasesConfig(
		Phase{Kind: Flat, DurationMin: 30, Target: 650, Sigma: 80},
		Phase{Kind: Ramp, DurationMin: 10, Start: 650, Target: 40, Sigma: 3},
	)
	cfg.SpikeProb = 0.03
	cfg.SpikeMult = 1.4

	a, err := GeneratePhases(NewRand(42), cfg)
	testutil.Ok(t, err)
	b, err := GeneratePhases(NewRand(42), cfg)
	testutil.Ok(t, err)
	testutil.Equals(t, a, b)
}

func TestPhasesConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		phases []Phase
	}{
		{"no phases", nil},
		{"unknown kind", []Phase{{Kind: "spiral", DurationMin: 5, Target: 10}}},
		{"zero duration", []Phase{{Kind: Flat, DurationMin: 0, Target: 10}}},
		{"negative sigma", []Phase{{Kind: Flat, DurationMin: 5, Target: 10, Sigma: -3}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GeneratePhases(NewRand(1), DefaultPhasesConfig(tc.phases...))
			testutil.NotOk(t, err)
			testutil.Assert(t, errors.Is(err, ErrBadConfig), "want ErrBadConfig, got %v", err)
		})
	}
}
