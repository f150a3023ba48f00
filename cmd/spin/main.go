package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Makepad-fr/spin/internal/cli"
	"github.com/Makepad-fr/spin/internal/config"
	"github.com/Makepad-fr/spin/internal/sound"
	"github.com/Makepad-fr/spin/internal/sound/speaker"
	"github.com/Makepad-fr/spin/internal/ui"
)

func main() {
	// Root flags, .env, environment and the YAML file (apply to every subcommand)
	cfg, args, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.PrintHelp()
			os.Exit(0)
		}
		ui.Fail(err.Error())
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Hand the remaining args to the CLI runner. The player is built per
	// subcommand so play can log to the TUI's file instead of stderr.
	code := cli.Run(args, cli.Options{
		Config: cfg,
		Logger: log,
		NewPlayer: func(l *slog.Logger) sound.Player {
			if !cfg.Sound {
				return sound.Nop{}
			}
			return speaker.New(l)
		},
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
