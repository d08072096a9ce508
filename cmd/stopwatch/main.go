package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/tickdown/stopwatch/stopwatch"
	"github.com/tickdown/stopwatch/util/logging"
)

var log *logging.Logging

func main() {
	var cli struct {
		Run       runCommand `cmd:"" default:"1" help:"run countdown"`
		LogLevel  string     `name:"log-level" default:"info" help:"log level"`
		LogFormat string     `name:"log-format" default:"terminal" enum:"terminal,json" help:"log format"`
		LogColor  bool       `name:"log-color" help:"force colored log output"`
		LogFile   string     `name:"log-file" optional:"" help:"log also to file"`
	}

	kctx := kong.Parse(&cli, kong.Name("stopwatch"), kong.Description("finite-duration countdown timer"))

	level, err := zerolog.ParseLevel(cli.LogLevel)
	kctx.FatalIfErrorf(err)

	var out io.Writer = os.Stderr

	if len(cli.LogFile) > 0 {
		f, err := logging.Output(cli.LogFile)
		kctx.FatalIfErrorf(err)

		out = zerolog.MultiLevelWriter(out, f)
	}

	root := logging.Setup(out, level, cli.LogFormat, cli.LogColor)
	log = logging.NewLogging(func(c zerolog.Context) zerolog.Context {
		return c.Str("module", "main")
	}).SetLogging(root)

	kctx.FatalIfErrorf(kctx.Run())
}

type runCommand struct {
	Max    string `name:"max" help:"countdown duration, <number><s|m|h>" default:""`
	Config string `name:"config" type:"existingfile" optional:"" help:"yaml configuration file"`
}

func (cmd *runCommand) Run() error {
	cfg, err := cmd.loadConfig()
	if err != nil {
		return err
	}

	sw, err := stopwatch.NewStopwatchFromConfig(cfg, nil)
	if err != nil {
		return err
	}

	_ = sw.SetLogging(log)

	donech := make(chan struct{})

	sw.On(stopwatch.EventTick, func() {
		log.Log().Info().
			Int("elapsed", sw.CurrentTime()).
			Int("remaining", sw.RemainingTime()).
			Msg("tick")
	})

	sw.On(stopwatch.EventStop, func() {
		close(donech)
	})

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigch)

	log.Log().Info().Int("max", sw.MaxTime()).Msg("countdown starts")

	sw.Start()

	select {
	case <-donech:
		log.Log().Info().Msg("countdown finished")
	case sig := <-sigch:
		sw.Stop()

		return errors.Errorf("stopped by %v", sig)
	}

	return nil
}

func (cmd *runCommand) loadConfig() (stopwatch.Config, error) {
	cfg := stopwatch.DefaultConfig()

	if len(cmd.Config) > 0 {
		b, err := os.ReadFile(cmd.Config)
		if err != nil {
			return cfg, errors.Wrapf(err, "failed to read config, %q", cmd.Config)
		}

		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to load config, %q", cmd.Config)
		}
	}

	if len(cmd.Max) > 0 {
		cfg.Max = cmd.Max
	}

	return cfg, nil
}
