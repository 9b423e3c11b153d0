// Package loadgen generates synthetic "concurrent users" series used to
// drive load against the demo applications.
//
// Values are produced one per schedule minute. Two shapes are supported:
// a weekly profile compacted into shorter days (GenerateProfile) and an
// explicit list of flat/ramp phases (GeneratePhases). Both draw from a
// caller-supplied random source and share the same spike pass and floor
// clamp, so a seed reproduces a run exactly.
package loadgen

import (
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrBadConfig is returned for generation configs that cannot produce a
// well defined series. It is always detected before any sampling happens.
var ErrBadConfig = errors.New("invalid load config")

// NewRand returns the source used for both sampling and spike draws.
// Seed 0 means a time based seed, any other value reproduces the series.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

func normal(rnd *rand.Rand, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: rnd}.Rand()
}

func clampMin(values []float64, min float64) {
	for i, v := range values {
		if v < min {
			values[i] = min
		}
	}
}

// injectSpikes multiplies values above threshold by mult with probability
// prob. One draw is consumed per value above threshold, none below it, so
// the stream stays aligned with the base sampling. prob <= 0 disables the
// pass without consuming anything.
func injectSpikes(rnd *rand.Rand, values []float64, prob, mult, threshold float64) {
	if prob <= 0 {
		return
	}
	for i, v := range values {
		if v > threshold && rnd.Float64() < prob {
			values[i] = v * mult
		}
	}
}
