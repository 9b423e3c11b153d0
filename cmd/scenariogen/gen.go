package main

import (
	"strconv"
	"strings"

	"github.com/efficientgo/tools/extkingpin"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	promModel "github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"
	"golang.org/x/sync/errgroup"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/graz-dev/java-on-kubernetes/pkg/promexport"
	"github.com/graz-dev/java-on-kubernetes/pkg/scenario"
	"github.com/graz-dev/java-on-kubernetes/pkg/scenarioplot"
)

func registerGen(m map[string]setupFunc, app *kingpin.Application) {
	cmd := app.Command("gen", "Generates load scenario artifacts: per-minute schedule JSON, a ConfigMap manifest and diagnostic plots.")
	preset := cmd.Flag("preset", "Name of the built-in preset to generate.").
		Short('p').Enum(scenario.Presets.Keys()...)
	customPreset := extkingpin.RegisterPathOrContent(cmd, "custom-preset", "YAML definition of a custom preset. Mutually exclusive with --preset and --all.")
	all := cmd.Flag("all", "Generate every built-in preset.").Bool()
	outputDir := cmd.Flag("output.dir", "Directory the artifacts are written to.").
		Default("output").String()
	seed := cmd.Flag("seed", "Seed for the random source. 0 means seeding from the current time.").
		Default("0").Int64()
	cmName := cmd.Flag("configmap.name", "Name of the generated ConfigMap.").
		Default("test-scenario").String()
	cmNamespace := cmd.Flag("configmap.namespace", "Namespace of the generated ConfigMap.").
		Default("microservices-demo").String()
	plots := cmd.Flag("plots", "Render timeseries and load distribution PNGs next to the artifacts.").
		Default("true").Bool()
	tsdbDir := cmd.Flag("tsdb.dir", "If set, the generated series is additionally written as a TSDB block into this directory.").
		String()
	extLabels := cmd.Flag("label", "External labels attached to the exported TSDB block (repeated).").
		PlaceHolder("<name>=\"<value>\"").Strings()

	m["gen"] = func(g *run.Group, logger log.Logger) error {
		g.Add(func() error {
			customContent, err := customPreset.Content()
			if err != nil {
				return err
			}

			extLset, err := parseFlagLabels(*extLabels)
			if err != nil {
				return errors.Wrap(err, "parse labels")
			}

			opts := scenario.RunOpts{
				OutputDir:     *outputDir,
				Seed:          *seed,
				ConfigMapName: *cmName,
				Namespace:     *cmNamespace,
			}
			if *plots {
				opts.Plot = scenarioplot.Save
			}

			switch {
			case *all:
				if *preset != "" || len(customContent) > 0 {
					return errors.New("--all is mutually exclusive with --preset and --custom-preset")
				}
				return genAll(logger, opts, *tsdbDir, extLset)
			case len(customContent) > 0:
				if *preset != "" {
					return errors.New("--preset is mutually exclusive with --custom-preset")
				}
				name, p, err := scenario.ParsePreset(customContent)
				if err != nil {
					return err
				}
				values, err := p.Run(logger, name, opts)
				if err != nil {
					return err
				}
				return exportBlock(logger, *tsdbDir, name, values, extLset)
			case *preset != "":
				values, err := scenario.RunPreset(logger, *preset, opts)
				if err != nil {
					return err
				}
				return exportBlock(logger, *tsdbDir, *preset, values, extLset)
			default:
				return errors.New("one of --preset, --custom-preset or --all is required")
			}
		}, func(error) {})
		return nil
	}
}

func genAll(logger log.Logger, opts scenario.RunOpts, tsdbDir string, extLset labels.Labels) error {
	var g errgroup.Group
	for _, name := range scenario.Presets.Keys() {
		name := name
		g.Go(func() error {
			values, err := scenario.RunPreset(log.With(logger, "preset", name), name, opts)
			if err != nil {
				return errors.Wrapf(err, "preset %s", name)
			}
			return exportBlock(logger, tsdbDir, name, values, extLset)
		})
	}
	return g.Wait()
}

func exportBlock(logger log.Logger, tsdbDir, preset string, values []float64, extLset labels.Labels) error {
	if tsdbDir == "" {
		return nil
	}
	id, err := promexport.WriteBlock(logger, tsdbDir, preset, values, extLset)
	if err != nil {
		return errors.Wrapf(err, "export block for preset %s", preset)
	}
	level.Info(logger).Log("msg", "scenario exported as TSDB block", "preset", preset, "ulid", id)
	return nil
}

func parseFlagLabels(s []string) (labels.Labels, error) {
	var lset labels.Labels
	for _, l := range s {
		parts := strings.SplitN(l, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("unrecognized label %q", l)
		}
		if !promModel.LabelName.IsValid(promModel.LabelName(parts[0])) {
			return nil, errors.Errorf("unsupported format for label %s", l)
		}
		val, err := strconv.Unquote(parts[1])
		if err != nil {
			return nil, errors.Wrap(err, "unquote label value")
		}
		lset = append(lset, labels.Label{Name: parts[0], Value: val})
	}
	return lset, nil
}
