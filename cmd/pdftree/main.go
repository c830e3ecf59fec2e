// Command pdftree prints the tree of objects a PDF page refers to.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/tsawler/pdftree/config"
)

// handler runs a parsed command
type handler func(env *env) error

// command registers itself on the application
type command func(app *kingpin.Application) (*kingpin.CmdClause, handler)

var commands = []command{
	treeCommand,
	describeCommand,
	pageCommand,
	contentsCommand,
	refsCommand,
	pagesCommand,
}

// env is shared by all handlers
type env struct {
	cfg   *config.Config
	log   *logrus.Logger
	out   io.Writer
	color bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("pdftree", "Inspect the indirect objects a PDF page refers to.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	configPath := app.Flag("config", "YAML settings file.").Envar(config.EnvVar).String()
	verbose := app.Flag("verbose", "Log build progress.").Short('v').Bool()
	logLevel := app.Flag("log-level", "Log level (panic, fatal, error, warning, info, debug, trace).").String()
	noColor := app.Flag("no-color", "Disable colored output.").Bool()

	handlers := make(map[string]handler, len(commands))
	for _, c := range commands {
		clause, h := c(app)
		handlers[clause.FullCommand()] = h
	}

	selected, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "pdftree: %v\n", err)
		return 1
	}

	e, err := newEnv(*configPath, *logLevel, *verbose, !*noColor, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "pdftree: %v\n", err)
		return 1
	}

	if err := handlers[selected](e); err != nil {
		fmt.Fprintf(stderr, "pdftree: %v\n", err)
		return 1
	}
	return 0
}

func newEnv(configPath, logLevel string, verbose, useColor bool, stdout, stderr io.Writer) (*env, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: !useColor, DisableTimestamp: true})

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		level, err = logrus.ParseLevel(logLevel)
		if err != nil {
			return nil, errors.Wrap(err, "--log-level")
		}
	}
	if verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	useColor = useColor && cfg.Output.Color
	if !useColor {
		color.NoColor = true
	}

	return &env{cfg: cfg, log: log, out: stdout, color: useColor}, nil
}
