package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/plife/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// A nil manager accepts every call.
	if err := om.WriteStats(TickStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager has a directory")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for tick := uint64(1); tick <= 3; tick++ {
		if err := om.WriteStats(TickStats{Tick: tick, Particles: 10, SpeedMean: float64(tick)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{"compute_forces": 75}}, 60); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	var stats []TickStats
	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "speed_mean"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}
	if err := gocsv.UnmarshalBytes(data, &stats); err != nil {
		t.Fatal(err)
	}
	if len(stats) != 3 || stats[2].Tick != 3 || stats[2].SpeedMean != 3 {
		t.Errorf("stats.csv rows = %+v", stats)
	}

	var perf []PerfStatsCSV
	data, err = os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if err := gocsv.UnmarshalBytes(data, &perf); err != nil {
		t.Fatal(err)
	}
	if len(perf) != 1 || perf[0].WindowEnd != 60 || perf[0].ComputeForcesPct != 75 {
		t.Errorf("perf.csv rows = %+v", perf)
	}
}

func TestOutputManagerWritesConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.RMax = 25
	cfg.Simulation.Derive()
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Simulation.RMax != 25 || loaded.Simulation.WorldWidth != cfg.Simulation.WorldWidth {
		t.Errorf("reloaded r_max %v world %d, want 25 and %d",
			loaded.Simulation.RMax, loaded.Simulation.WorldWidth, cfg.Simulation.WorldWidth)
	}
}
