package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"

	"github.com/fatih/structtag"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	yaml "gopkg.in/yaml.v2"

	"github.com/graz-dev/java-on-kubernetes/pkg/loadgen"
	"github.com/graz-dev/java-on-kubernetes/pkg/scenario"
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Config examples generator.")
	app.HelpFlag.Short('h')
	outputDir := app.Flag("output-dir", "Output directory for generated examples.").String()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if _, err := app.Parse(os.Args[1:]); err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}

	typ := "preset-profile"
	if err := generate(scenario.PresetFile{
		Name:      "office-hours",
		Kind:      scenario.KindProfile,
		SpawnRate: 50,
		AvgValues: [][]float64{
			{40, 650, 470, 800, 360, 40},
			{40, 540, 360, 650, 250, 40},
		},
		Durations:      []int{6, 4, 2, 6, 2, 4},
		DayLengthHours: 24,
		NumDays:        7,
		SigmaWeek:      0.15,
		SigmaLow:       3,
		SigmaHigh:      80,
		LoadThreshold:  200,
		SpikeProb:      0.03,
		SpikeMult:      1.4,
		MinValue:       1,
	}, typ, *outputDir); err != nil {
		level.Error(logger).Log("msg", "failed to generate", "type", typ, "err", err)
		os.Exit(1)
	}

	typ = "preset-phases"
	if err := generate(scenario.PresetFile{
		Name:      "one-hour-spike",
		Kind:      scenario.KindPhases,
		SpawnRate: 50,
		Phases: []loadgen.Phase{
			{Kind: loadgen.Flat, DurationMin: 15, Target: 50, Sigma: 3},
			{Kind: loadgen.Ramp, DurationMin: 5, Start: 50, Target: 850, Sigma: 3},
			{Kind: loadgen.Flat, DurationMin: 20, Target: 850, Sigma: 5},
		},
		LoadThreshold: 200,
		SpikeProb:     0.03,
		SpikeMult:     1.4,
		MinValue:      1,
	}, typ, *outputDir); err != nil {
		level.Error(logger).Log("msg", "failed to generate", "type", typ, "err", err)
		os.Exit(1)
	}
	logger.Log("msg", "success")
}

func generate(obj interface{}, typ string, outputDir string) error {
	// We forbid omitempty option. This is for simplification for doc generation.
	if err := checkForOmitEmptyTagOption(obj); err != nil {
		return errors.Wrap(err, "invalid type")
	}

	out, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(filepath.Join(outputDir, fmt.Sprintf("config_%s.txt", typ)), out, os.ModePerm)
}

func checkForOmitEmptyTagOption(obj interface{}) error {
	return checkForOmitEmptyTagOptionRec(reflect.ValueOf(obj))
}

func checkForOmitEmptyTagOptionRec(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			structField := v.Type().Field(i).Tag
			if structField == "" {
				continue
			}

			tags, err := structtag.Parse(string(structField))
			if err != nil {
				return errors.Wrapf(err, "%s: failed to parse tag %q", v.Type().Field(i).Name, v.Type().Field(i).Tag)
			}

			tag, err := tags.Get("yaml")
			if err != nil {
				return errors.Wrapf(err, "%s: failed to get tag %q", v.Type().Field(i).Name, v.Type().Field(i).Tag)
			}

			for _, opts := range tag.Options {
				if opts == "omitempty" {
					return errors.Errorf("omitempty is forbidden for config, but spotted on field '%s'", v.Type().Field(i).Name)
				}
			}

			if err := checkForOmitEmptyTagOptionRec(v.Field(i)); err != nil {
				return errors.Wrapf(err, "%s", v.Type().Field(i).Name)
			}
		}

	case reflect.Ptr:
		return errors.New("nil pointers are not allowed in configuration")

	case reflect.Interface:
		return checkForOmitEmptyTagOptionRec(v.Elem())
	}

	return nil
}
