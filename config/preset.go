package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const presetExt = ".yaml"

// SavePreset writes sim to dir/name.yaml, creating dir if needed.
func SavePreset(dir, name string, sim SimulationConfig) error {
	path, err := presetPath(dir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating preset directory: %w", err)
	}
	data, err := yaml.Marshal(&sim)
	if err != nil {
		return fmt.Errorf("marshaling preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset %q: %w", name, err)
	}
	return nil
}

// LoadPreset reads dir/name.yaml. Derived values are recomputed and the
// result is validated, so a hand-edited preset cannot smuggle in a
// stale friction factor or a mismatched matrix.
func LoadPreset(dir, name string) (SimulationConfig, error) {
	var sim SimulationConfig
	path, err := presetPath(dir, name)
	if err != nil {
		return sim, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sim, fmt.Errorf("reading preset %q: %w", name, err)
	}
	if err := yaml.Unmarshal(data, &sim); err != nil {
		return sim, fmt.Errorf("parsing preset %q: %w", name, err)
	}
	sim.Derive()
	if err := sim.Validate(); err != nil {
		return sim, fmt.Errorf("preset %q: %w", name, err)
	}
	return sim, nil
}

// ListPresets returns the preset names in dir, sorted. A missing dir has no presets.
func ListPresets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != presetExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), presetExt))
	}
	sort.Strings(names)
	return names, nil
}

func presetPath(dir, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid preset name %q", name)
	}
	return filepath.Join(dir, name+presetExt), nil
}
