package scenario

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/oklog/ulid"
	"github.com/pkg/errors"
)

// PlotFunc renders diagnostic plots for a generated series. The run fails
// when it fails.
type PlotFunc func(values []float64, dir, name string) error

// RunOpts carries everything a run needs besides the preset itself.
type RunOpts struct {
	OutputDir     string
	Seed          int64
	ConfigMapName string
	Namespace     string

	// Plot is invoked once the artifacts are on disk. nil skips plotting.
	Plot PlotFunc
}

// RunMeta records how a schedule was produced. It sits next to the other
// artifacts as {name}.meta.json.
type RunMeta struct {
	ID        string `json:"id"`
	Preset    string `json:"preset"`
	Kind      Kind   `json:"kind"`
	Seed      int64  `json:"seed"`
	SpawnRate int    `json:"spawn_rate"`
	Minutes   int    `json:"minutes"`
	Created   string `json:"created"`
}

// RunPreset generates the named built-in preset and writes its artifacts.
func RunPreset(logger log.Logger, name string, opts RunOpts) ([]float64, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	return p.Run(logger, name, opts)
}

// Run writes the preset's schedule JSON, its ConfigMap YAML and the run
// metadata into opts.OutputDir, named after name, then hands the series
// to the plot hook.
func (p Preset) Run(logger log.Logger, name string, opts RunOpts) ([]float64, error) {
	values, err := p.Generate(opts.Seed)
	if err != nil {
		return nil, err
	}

	scenarioJSON, err := EncodeJSON(Schedule(values, p.SpawnRate))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "create output dir")
	}

	jsonPath := filepath.Join(opts.OutputDir, name+".json")
	if err := os.WriteFile(jsonPath, scenarioJSON, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "write schedule")
	}

	cmYAML, err := EncodeConfigMap(ConfigMap(scenarioJSON, opts.ConfigMapName, opts.Namespace))
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(opts.OutputDir, name+".yaml"), cmYAML, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "write configmap")
	}

	meta := RunMeta{
		ID:        ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Preset:    name,
		Kind:      p.Kind,
		Seed:      opts.Seed,
		SpawnRate: p.SpawnRate,
		Minutes:   len(values),
		Created:   time.Now().UTC().Format(time.RFC3339),
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal run meta")
	}
	if err := os.WriteFile(filepath.Join(opts.OutputDir, name+".meta.json"), metaJSON, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "write run meta")
	}

	if opts.Plot != nil {
		if err := opts.Plot(values, opts.OutputDir, name); err != nil {
			return nil, errors.Wrap(err, "render plots")
		}
	}

	level.Info(logger).Log(
		"msg", "scenario written",
		"preset", name,
		"run", meta.ID,
		"minutes", len(values),
		"path", jsonPath,
	)
	return values, nil
}
