package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Makepad-fr/spin/internal/config"
	"github.com/Makepad-fr/spin/internal/gui"
	"github.com/Makepad-fr/spin/internal/notify"
	"github.com/Makepad-fr/spin/internal/selector"
	"github.com/Makepad-fr/spin/internal/sound"
	"github.com/Makepad-fr/spin/internal/sound/speaker"
	"github.com/Makepad-fr/spin/internal/store"
	"github.com/Makepad-fr/spin/internal/ui"
)

func main() {
	cfg, _, err := config.Load(os.Args[1:])
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	kv, err := store.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		os.Exit(1)
	}
	defer kv.Close()

	rng := cfg.Range
	sess := selector.NewSession(selector.Options{
		RNG:        selector.NewRNG(cfg.Seed),
		Store:      store.NewHistory(kv),
		Logger:     log,
		Range:      &rng,
		Exclusions: selector.ParseExclusions(cfg.Exclude),
		Mode:       cfg.Mode,
	})

	var player sound.Player = sound.Nop{}
	if cfg.Sound {
		player = speaker.New(log)
	}

	g := gui.New(sess, gui.Options{
		Player:   player,
		Notifier: notify.Dialog{Title: "Spin"},
		Logger:   log,
	})
	ebiten.SetWindowSize(gui.WindowWidth, gui.WindowHeight)
	ebiten.SetWindowTitle("Spin - Space: spin, N/E: mode, C: clear, Esc/Q: quit")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("run", "error", err)
		kv.Close()
		os.Exit(1)
	}
}
