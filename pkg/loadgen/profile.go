package loadgen

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// ProfileConfig describes a repeating multi-day load profile. Each row of
// AvgValues is one day of average user counts, split into the hour spans
// given by Durations, and the whole 24h shape is compacted into a day of
// DayLengthHours on the schedule.
type ProfileConfig struct {
	// AvgValues holds one row per day, cycled when NumDays exceeds the
	// number of rows. Every row must have one average per duration span.
	AvgValues [][]float64

	// Durations are the hour spans of one 24h day, e.g. [6, 4, 2, 6, 2, 4].
	// They must sum to exactly 24.
	Durations []int

	// DayLengthHours is how long one profile day takes on the schedule.
	// 24 replays the profile in real time, 3 compacts a day into 3 hours.
	DayLengthHours float64

	// NumDays is how many days to generate.
	NumDays int

	// SigmaWeek scales the day to day jitter of each span average.
	SigmaWeek float64

	// SigmaLow and SigmaHigh are the per minute noise levels. SigmaHigh is
	// used for spans whose jittered average exceeds LoadThreshold.
	SigmaLow  float64
	SigmaHigh float64

	// LoadThreshold separates the quiet noise regime from the busy one and
	// gates spike injection.
	LoadThreshold float64

	// SpikeProb is the chance of multiplying a busy sample by SpikeMult.
	// Zero disables spikes.
	SpikeProb float64
	SpikeMult float64

	// MinValue is the floor every sample is clamped to.
	MinValue float64
}

// DefaultProfileConfig returns the canonical profile settings for the
// given day table.
func DefaultProfileConfig(avgValues [][]float64, durations []int) ProfileConfig {
	return ProfileConfig{
		AvgValues:      avgValues,
		Durations:      durations,
		DayLengthHours: 24,
		NumDays:        7,
		SigmaWeek:      0.15,
		SigmaLow:       3,
		SigmaHigh:      80,
		LoadThreshold:  200,
		SpikeProb:      0.03,
		SpikeMult:      1.4,
		MinValue:       1,
	}
}

// Validate reports ErrBadConfig for any setting the generator cannot act on.
func (c ProfileConfig) Validate() error {
	if len(c.Durations) == 0 {
		return errors.Wrap(ErrBadConfig, "no durations given")
	}
	sum := 0
	for _, d := range c.Durations {
		if d <= 0 {
			return errors.Wrapf(ErrBadConfig, "duration %dh is not positive", d)
		}
		sum += d
	}
	if sum != 24 {
		return errors.Wrapf(ErrBadConfig, "durations sum to %dh, want 24h", sum)
	}
	if len(c.AvgValues) == 0 {
		return errors.Wrap(ErrBadConfig, "no day rows given")
	}
	for i, row := range c.AvgValues {
		if len(row) != len(c.Durations) {
			return errors.Wrapf(ErrBadConfig, "day row %d has %d averages, want %d", i, len(row), len(c.Durations))
		}
		for _, avg := range row {
			if avg < 0 {
				return errors.Wrapf(ErrBadConfig, "day row %d holds negative average %v", i, avg)
			}
		}
	}
	if c.DayLengthHours <= 0 {
		return errors.Wrapf(ErrBadConfig, "day length %vh is not positive", c.DayLengthHours)
	}
	if c.NumDays < 1 {
		return errors.Wrapf(ErrBadConfig, "num days %d is less than 1", c.NumDays)
	}
	if c.SigmaWeek < 0 || c.SigmaLow < 0 || c.SigmaHigh < 0 {
		return errors.Wrap(ErrBadConfig, "sigmas must not be negative")
	}
	return nil
}

// GenerateProfile samples the per minute user counts for cfg. The slice
// holds NumDays times the compacted day length values, in day order.
func GenerateProfile(rnd *rand.Rand, cfg ProfileConfig) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// One 24h profile hour shrinks to stepLength schedule minutes.
	compaction := 24 / cfg.DayLengthHours
	stepLength := 60 / compaction

	var values []float64
	for day := 0; day < cfg.NumDays; day++ {
		row := cfg.AvgValues[day%len(cfg.AvgValues)]
		for i, avg := range row {
			// Every span of every day gets its own jittered average, which
			// also picks the noise regime.
			thisAvg := normal(rnd, avg, cfg.SigmaWeek*avg)
			sigma := cfg.SigmaLow
			if thisAvg > cfg.LoadThreshold {
				sigma = cfg.SigmaHigh
			}
			steps := int(float64(cfg.Durations[i]) * stepLength)
			for s := 0; s < steps; s++ {
				values = append(values, normal(rnd, thisAvg, sigma))
			}
		}
	}

	clampMin(values, cfg.MinValue)
	injectSpikes(rnd, values, cfg.SpikeProb, cfg.SpikeMult, cfg.LoadThreshold)
	clampMin(values, cfg.MinValue)
	return values, nil
}
