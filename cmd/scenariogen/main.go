package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	_ "go.uber.org/automaxprocs"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

type setupFunc func(g *run.Group, logger log.Logger) error

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Load scenario generator for the java-on-kubernetes demo stack.")
	app.HelpFlag.Short('h')
	logLevel := app.Flag("log.level", "Log filtering level.").
		Default("info").Enum("error", "warn", "info", "debug")

	cmds := map[string]setupFunc{}
	registerGen(cmds, app)
	registerPlan(cmds, app)
	registerList(cmds, app)

	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "parse flags"))
		app.Usage(os.Args[1:])
		os.Exit(2)
	}

	logger := newLogger(*logLevel)

	var g run.Group
	setup, ok := cmds[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s command not found\n", cmd)
		app.Usage(os.Args[1:])
		os.Exit(2)
	}
	if err := setup(&g, logger); err != nil {
		level.Error(logger).Log("err", errors.Wrapf(err, "%s command failed", cmd))
		os.Exit(1)
	}

	// Listen for termination signals.
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return interrupt(logger, cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		level.Error(logger).Log("err", errors.Wrapf(err, "%s command failed", cmd))
		os.Exit(1)
	}
}

func newLogger(logLevel string) log.Logger {
	var lvl level.Option
	switch logLevel {
	case "error":
		lvl = level.AllowError()
	case "warn":
		lvl = level.AllowWarn()
	case "info":
		lvl = level.AllowInfo()
	case "debug":
		lvl = level.AllowDebug()
	default:
		panic("unexpected log level")
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, lvl)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func interrupt(logger log.Logger, cancel <-chan struct{}) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-c:
		level.Info(logger).Log("msg", "caught signal. Exiting.", "signal", s)
		return nil
	case <-cancel:
		return errors.New("canceled")
	}
}
