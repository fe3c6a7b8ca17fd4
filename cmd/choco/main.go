package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/footprint-tools/console/internal/app"
	"github.com/footprint-tools/console/internal/cli"
	"github.com/footprint-tools/console/internal/config"
	"github.com/footprint-tools/console/internal/log"
	"github.com/footprint-tools/console/internal/paths"
	"github.com/footprint-tools/console/internal/repl"
	"github.com/footprint-tools/console/internal/ui"
	"github.com/footprint-tools/console/internal/ui/style"
	"github.com/footprint-tools/console/internal/usage"
)

const programName = "choco"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	tty := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, tty))
}

func run(args []string, stdout, stderr io.Writer, tty bool) int {
	flags, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n\n", programName, err)
		cli.PrintUsage(stderr, programName)
		var ue *usage.Error
		if errors.As(err, &ue) {
			return ue.ExitCode()
		}
		return 1
	}

	if flags.Has("--help") {
		style.Init(!flags.Has("--no-color") && tty, nil)
		cli.PrintUsage(stdout, programName)
		return 0
	}
	if flags.Has("--version") {
		fmt.Fprintf(stdout, "%s %s\n", programName, version)
		return 0
	}

	opts, err := app.DefaultOptions(config.NewProvider(paths.SettingsFilePath()))
	if err != nil {
		fmt.Fprintf(stderr, "%s: settings: %v\n", programName, err)
	}
	if lvl := flags.String("--log-level", ""); lvl != "" {
		opts.LogLevel = log.ParseLevel(lvl)
	}
	if dir := flags.String("--cfg-dir", ""); dir != "" {
		opts.CfgDir = dir
	}
	opts.StyleEnabled = !flags.Has("--no-color") && app.ColorEnabled(opts.Color, tty)

	if flags.Has("--batch") || !tty {
		return runBatch(opts, flags, stdout, stderr)
	}
	return runInteractive(opts, flags, stderr)
}

func runBatch(opts app.Options, flags *cli.ParsedFlags, stdout, stderr io.Writer) int {
	opts.Output = stdout
	opts.LogEcho = stderr
	opts.WatchArchive = false

	a, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return 1
	}
	defer func() { _ = a.Close() }()

	if err := a.RunBatch(flags.Raw()); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return 1
	}
	return 0
}

func runInteractive(opts app.Options, flags *cli.ParsedFlags, stderr io.Writer) int {
	buf := ui.NewBuffer(ui.DefaultScrollback)
	opts.Output = buf

	a, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Watch(ctx)
	a.Console.PostLoad(flags.Raw())
	a.Console.Update()
	a.RestoreHistory()

	if err := repl.Run(ctx, a.Console, buf, a.Frame); err != nil {
		_ = a.Shutdown(false)
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return 1
	}
	if err := a.Shutdown(true); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return 1
	}
	return 0
}
