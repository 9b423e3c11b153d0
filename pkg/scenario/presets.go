package scenario

import (
	"github.com/graz-dev/java-on-kubernetes/pkg/loadgen"
)

var (
	// One 24h day split into night, morning, lunch, afternoon, evening
	// and late night spans.
	standardDurations = []int{6, 4, 2, 6, 2, 4}

	// One row per day of the week, Monday first. The afternoons peak and
	// the weekend runs noticeably lighter.
	weekAvgValues = [][]float64{
		{40, 650, 470, 800, 360, 40},
		{40, 610, 430, 750, 320, 40},
		{40, 680, 500, 820, 400, 40},
		{40, 650, 470, 850, 360, 40},
		{40, 610, 430, 720, 320, 40},
		{40, 570, 400, 680, 290, 40},
		{40, 540, 360, 650, 250, 40},
	}

	Presets = PresetMap{
		// Two quiet weeks with 3h days each. Low load, mild noise, no
		// spikes, meant for long soak runs at spawn rate 1.
		"2weeks": twoWeeks(),
		// The full shop week replayed with each day compacted into 24/7h,
		// so the whole week fits into one day of wall time.
		"7days": sevenDays(),
		// Same shape as 7days, kept as its own name for the HPA stress
		// walkthrough in the docs.
		"hpa_stress": sevenDays(),
		// A single busy Thursday squeezed into 3h, with plateaus joined
		// by steep ramps and random spikes on top.
		"thursday_3h": thursday3h(),
		// One hour with a short violent peak in the middle.
		"1h_spike": hourSpike(),
		// A plain climb from 10 to 1500 users over one hour, no noise.
		"linear_ramp": linearRamp(),
	}
)

func twoWeeks() Preset {
	p := loadgen.DefaultProfileConfig([][]float64{
		{6, 400, 100, 380, 200, 6},
		{6, 450, 120, 400, 180, 6},
		{6, 380, 200, 430, 220, 6},
		{6, 500, 150, 480, 230, 6},
		{6, 450, 100, 300, 150, 6},
		{6, 50, 30, 70, 9, 6},
		{6, 10, 10, 30, 50, 6},
	}, standardDurations)
	p.DayLengthHours = 3
	p.NumDays = 14
	p.SigmaWeek = 0.1
	p.SigmaLow = 10
	p.SigmaHigh = 10
	p.SpikeProb = 0
	return Preset{Kind: KindProfile, SpawnRate: 1, Profile: p}
}

func sevenDays() Preset {
	p := loadgen.DefaultProfileConfig(weekAvgValues, standardDurations)
	p.DayLengthHours = 24.0 / 7
	return Preset{Kind: KindProfile, SpawnRate: 50, Profile: p}
}

func thursday3h() Preset {
	c := loadgen.DefaultPhasesConfig(
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 40, Target: 40, Sigma: 3},
		loadgen.Phase{Kind: loadgen.Ramp, DurationMin: 5, Start: 40, Target: 650, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 27, Target: 650, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 13, Target: 470, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Ramp, DurationMin: 5, Start: 470, Target: 850, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 40, Target: 850, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Ramp, DurationMin: 5, Start: 850, Target: 360, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 13, Target: 360, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Ramp, DurationMin: 5, Start: 360, Target: 40, Sigma: 3},
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 27, Target: 40, Sigma: 3},
	)
	c.SpikeProb = 0.03
	c.SpikeMult = 1.4
	return Preset{Kind: KindPhases, SpawnRate: 50, Phases: c}
}

func hourSpike() Preset {
	c := loadgen.DefaultPhasesConfig(
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 15, Target: 50, Sigma: 3},
		loadgen.Phase{Kind: loadgen.Ramp, DurationMin: 5, Start: 50, Target: 850, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 20, Target: 850, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Ramp, DurationMin: 5, Start: 850, Target: 50, Sigma: 80},
		loadgen.Phase{Kind: loadgen.Flat, DurationMin: 15, Target: 50, Sigma: 3},
	)
	c.SpikeProb = 0.03
	c.SpikeMult = 1.4
	return Preset{Kind: KindPhases, SpawnRate: 50, Phases: c}
}

func linearRamp() Preset {
	c := loadgen.DefaultPhasesConfig(
		loadgen.Phase{Kind: loadgen.Ramp, DurationMin: 60, Start: 10, Target: 1500, Sigma: 0},
	)
	return Preset{Kind: KindPhases, SpawnRate: 50, Phases: c}
}
