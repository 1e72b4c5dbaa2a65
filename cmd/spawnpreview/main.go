// Spawn layout preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/spawnpreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/sim"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

var layouts = []string{config.LayoutUniform, config.LayoutSimplex, config.LayoutPerlin}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Spawn Layout Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg, err := config.Defaults()
	if err != nil {
		panic(err)
	}
	simCfg := cfg.Simulation
	layout := cfg.Spawn
	layoutIdx := 0
	for i, l := range layouts {
		if l == layout.Layout {
			layoutIdx = i
		}
	}

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	density := make([]float64, gridSize*gridSize)
	showDots := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			generateDensity(density, layout, simCfg.Seed)
			updateTexture(texture, density, layout.NoiseThreshold)
			needsRegen = false
		}
		particles := sim.Spawn(simCfg, layout)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		if showDots {
			sx := previewSize / float32(simCfg.WorldWidth)
			sy := previewSize / float32(simCfg.WorldHeight)
			for _, p := range particles {
				rl.DrawPixelV(rl.Vector2{X: 10 + p.Position.X*sx, Y: 10 + p.Position.Y*sy}, rl.Orange)
			}
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		var above int
		for _, d := range density {
			if d > layout.NoiseThreshold {
				above++
			}
		}
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Particles: %d  World: %dx%d", len(particles), simCfg.WorldWidth, simCfg.WorldHeight), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Area above threshold: %.1f%%", 100*float64(above)/float64(len(density))), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Spawn Layout", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Layout: "+layouts[layoutIdx]) {
			layoutIdx = (layoutIdx + 1) % len(layouts)
			layout.Layout = layouts[layoutIdx]
			needsRegen = true
		}
		panelY += 45

		rl.DrawText("Noise Scale", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.5", "16",
			float32(layout.NoiseScale), 0.5, 16,
		)
		rl.DrawText(fmt.Sprintf("%.2f", layout.NoiseScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newScale) != layout.NoiseScale {
			layout.NoiseScale = float64(newScale)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Noise Threshold", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newThreshold := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "0.95",
			float32(layout.NoiseThreshold), 0, 0.95,
		)
		rl.DrawText(fmt.Sprintf("%.2f", layout.NoiseThreshold), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newThreshold) != layout.NoiseThreshold {
			layout.NoiseThreshold = float64(newThreshold)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Particles", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "16384",
			float32(simCfg.ParticleCount), 0, 16384,
		)
		rl.DrawText(fmt.Sprintf("%d", simCfg.ParticleCount), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		simCfg.ParticleCount = int(newCount)
		panelY += 35

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(simCfg.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", simCfg.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if uint64(newSeed) != simCfg.Seed {
			simCfg.Seed = uint64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showDots, "Hide Dots", "Show Dots")) {
			showDots = !showDots
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			simCfg.Seed = uint64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		panelY += 50

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		out, _ := yaml.Marshal(map[string]config.SpawnConfig{"spawn": layout})
		rl.DrawText(string(out), int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(string(out))
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// generateDensity samples the layout's density over the whole world.
func generateDensity(grid []float64, layout config.SpawnConfig, seed uint64) {
	field := sim.NewDensityField(layout, int64(seed))
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			d := 1.0
			if field != nil {
				u := float64(x) / gridSize * layout.NoiseScale
				v := float64(y) / gridSize * layout.NoiseScale
				d = field(u, v)
			}
			grid[y*gridSize+x] = d
		}
	}
}

// updateTexture shades cells below the threshold dark and the rest by density.
func updateTexture(texture rl.Texture2D, grid []float64, threshold float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, d := range grid {
		v := uint8(d * 255)
		if d <= threshold {
			v /= 4
		}
		pixels[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
