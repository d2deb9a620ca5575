package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/kxue43/repo-cloner/catalog"
	"github.com/kxue43/repo-cloner/prompt"
	"github.com/kxue43/repo-cloner/scaffold"
	"github.com/kxue43/repo-cloner/terminal"
	"github.com/kxue43/repo-cloner/vcs"
	"github.com/kxue43/repo-cloner/version"
)

type CLI struct {
	rootDir  string
	LogLevel string           `name:"log-level" hidden:"" default:"warn" enum:"error,warn,info,debug,trace" env:"REPO_CLONER_LOG_LEVEL" help:"Diagnostics written to stderr."`
	DebugLog string           `name:"debug-log" hidden:"" type:"path" env:"REPO_CLONER_DEBUG_LOG" help:"Dump every prompt message to this file."`
	Version  kong.VersionFlag `name:"version" help:"Show version information and quit."`
}

func (c *CLI) AfterApply() (err error) {
	c.rootDir, err = os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}

	return nil
}

func (c *CLI) newLogger(dest io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	logger := logrus.New()
	logger.SetOutput(dest)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return logger, nil
}

// Run returns the process exit code.
func (c *CLI) Run(stdin io.Reader, stdout, stderr io.Writer) int {
	reporter := terminal.NewReporter(stdout, stderr)

	logger, err := c.newLogger(stderr)
	if err != nil {
		reporter.Failure(err)

		return 1
	}

	tui := prompt.TUI{In: stdin, Out: stdout}

	if c.DebugLog != "" {
		dump, err := os.OpenFile(c.DebugLog, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			reporter.Failure(fmt.Errorf("failed to open debug log %q: %w", c.DebugLog, err))

			return 1
		}

		defer func() { _ = dump.Close() }()

		tui.Dump = dump
	}

	reporter.Banner()

	p := scaffold.Pipeline{
		Catalog:  catalog.Default(),
		Prompter: tui,
		VCS:      vcs.NewClient(),
		Logger:   logger,
		Observer: reporter,
		WorkDir:  c.rootDir,
	}

	res, err := p.Run(context.Background())
	if err != nil {
		logger.Debugf("run failed: kind=%s", scaffold.KindOf(err))

		reporter.Failure(err)

		return 1
	}

	reporter.Success(res)

	return 0
}

func main() {
	var cli CLI

	kong.Parse(
		&cli,
		kong.Name("repo-cloner"),
		kong.Description("Create a new project from a template repository."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.FromBuildInfo()},
	)

	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr))
}
