package main

import (
	"fmt"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/oklog/run"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/graz-dev/java-on-kubernetes/pkg/scenario"
)

func registerPlan(m map[string]setupFunc, app *kingpin.Application) {
	cmd := app.Command("plan", "Prints the per-minute schedule JSON for a preset on stdout without writing any artifact.")
	preset := cmd.Flag("preset", "Name of the built-in preset to plan.").
		Short('p').Required().Enum(scenario.Presets.Keys()...)
	seed := cmd.Flag("seed", "Seed for the random source. 0 means seeding from the current time.").
		Default("0").Int64()

	m["plan"] = func(g *run.Group, _ log.Logger) error {
		g.Add(func() error {
			p := scenario.Presets[*preset]
			values, err := p.Generate(*seed)
			if err != nil {
				return err
			}
			out, err := scenario.EncodeJSON(scenario.Schedule(values, p.SpawnRate))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, string(out))
			return err
		}, func(error) {})
		return nil
	}
}

func registerList(m map[string]setupFunc, app *kingpin.Application) {
	app.Command("list", "Lists the built-in presets.")

	m["list"] = func(g *run.Group, _ log.Logger) error {
		g.Add(func() error {
			for _, name := range scenario.Presets.Keys() {
				p := scenario.Presets[name]
				fmt.Printf("%s\tkind=%s\tspawn_rate=%d\n", name, p.Kind, p.SpawnRate)
			}
			return nil
		}, func(error) {})
		return nil
	}
}
