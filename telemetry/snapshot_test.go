package telemetry

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pthm-cable/plife/config"
)

func TestSnapshotSaveLoadRestore(t *testing.T) {
	src := newDefaultSim(t, 50)
	for range 2 {
		if err := src.Step(0); err != nil {
			t.Fatal(err)
		}
	}

	snap := TakeSnapshot(src)
	path, err := SaveSnapshot(snap, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_2.json" {
		t.Errorf("path = %s, want snapshot_2.json", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.Tick != 2 || len(loaded.Particles) != 50 {
		t.Errorf("loaded tick %d with %d particles, want 2 and 50", loaded.Tick, len(loaded.Particles))
	}

	dst := newDefaultSim(t, 10)
	if err := loaded.Restore(dst); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !slices.Equal(dst.Particles(), src.Particles()) {
		t.Error("restored particles differ from source")
	}
	if dst.Tick() != src.Tick() || dst.SimTime() != src.SimTime() {
		t.Errorf("restored clock = %d/%v, want %d/%v", dst.Tick(), dst.SimTime(), src.Tick(), src.SimTime())
	}
	if err := dst.Step(0); err != nil {
		t.Fatal(err)
	}
	if again := TakeSnapshot(dst); again.Tick != 3 {
		t.Errorf("tick after restore and one step = %d, want 3", again.Tick)
	}
	if got, want := dst.Config(), src.Config(); got.RMax != want.RMax ||
		!slices.Equal(got.AttractionMatrix, want.AttractionMatrix) {
		t.Error("restored config differs from source")
	}
}

func TestSnapshotRestoreRejects(t *testing.T) {
	s := newDefaultSim(t, 10)
	good := TakeSnapshot(s)
	before := s.Config()

	wrongVersion := *good
	wrongVersion.Version = SnapshotVersion + 1
	if err := wrongVersion.Restore(s); err == nil {
		t.Error("restored a snapshot with an unknown version")
	}

	badType := *good
	badType.Particles = slices.Clone(good.Particles)
	badType.Particles[0].Type = uint32(good.Config.TypeCount)
	if err := badType.Restore(s); !errors.Is(err, config.ErrConfigInvalid) {
		t.Errorf("bad type: err = %v, want ErrConfigInvalid", err)
	}

	if got := s.Config(); got.RMax != before.RMax || got.ParticleCount != before.ParticleCount {
		t.Error("rejected restore changed the configuration")
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
