package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/sim"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for replay.
type Snapshot struct {
	Version int     `json:"version"`
	Tick    uint64  `json:"tick"`
	SimTime float64 `json:"sim_time"`

	Config    config.SimulationConfig `json:"config"`
	Particles []ParticleState         `json:"particles"`
}

// ParticleState holds one particle's complete state.
type ParticleState struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	VelX float32 `json:"vel_x"`
	VelY float32 `json:"vel_y"`
	Type uint32  `json:"type"`
}

// TakeSnapshot captures the published state of s.
func TakeSnapshot(s *sim.Simulation) *Snapshot {
	particles := s.Particles()
	snap := &Snapshot{
		Version:   SnapshotVersion,
		Tick:      s.Tick(),
		SimTime:   s.SimTime(),
		Config:    s.Config(),
		Particles: make([]ParticleState, len(particles)),
	}
	for i, p := range particles {
		snap.Particles[i] = ParticleState{
			X: p.Position.X, Y: p.Position.Y,
			VelX: p.Velocity.X, VelY: p.Velocity.Y,
			Type: p.Type,
		}
	}
	return snap
}

// Restore reconfigures s to the snapshot's configuration, particles, tick
// and simulated time. On error s keeps its previous configuration.
func (snap *Snapshot) Restore(s *sim.Simulation) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", snap.Version, SnapshotVersion)
	}
	particles := make([]components.Particle, len(snap.Particles))
	for i, p := range snap.Particles {
		if int(p.Type) >= snap.Config.TypeCount {
			return fmt.Errorf("%w: snapshot particle %d has type %d, type_count is %d",
				config.ErrConfigInvalid, i, p.Type, snap.Config.TypeCount)
		}
		particles[i] = components.Particle{
			Position: components.Vec2{X: p.X, Y: p.Y},
			Velocity: components.Vec2{X: p.VelX, Y: p.VelY},
			Type:     p.Type,
		}
	}

	cfg := snap.Config.Clone()
	cfg.ParticleCount = len(particles)
	if err := s.Reconfigure(cfg); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	if err := s.SetParticles(particles); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	s.SetClock(snap.Tick, snap.SimTime)
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
