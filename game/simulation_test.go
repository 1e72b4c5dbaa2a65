package game

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/pthm-cable/plife/config"
)

func newHeadlessGame(t *testing.T) *Game {
	t.Helper()
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.ParticleCount = 50
	cfg.Index.Workers = 1
	g, err := NewGameWithOptions(Options{
		Config:   cfg,
		Headless: true,
		Logger:   slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name       string
		fail       bool
		wantTick   uint64
		wantPaused bool
	}{
		{"ticks run", false, 3, false},
		{"failed tick pauses", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newHeadlessGame(t)
			if tt.fail {
				g.step = func(float32) error { return errors.New("index build failed") }
			}
			g.advance(3)
			if g.Tick() != tt.wantTick {
				t.Errorf("tick = %d, want %d", g.Tick(), tt.wantTick)
			}
			if g.paused != tt.wantPaused {
				t.Errorf("paused = %v, want %v", g.paused, tt.wantPaused)
			}
		})
	}
}

func TestUpdateHeadlessReturnsTickError(t *testing.T) {
	g := newHeadlessGame(t)
	want := errors.New("boom")
	g.step = func(float32) error { return want }
	if err := g.UpdateHeadless(); !errors.Is(err, want) {
		t.Errorf("UpdateHeadless = %v, want %v", err, want)
	}
}
