package game

import "github.com/pthm-cable/plife/telemetry"

// flushTelemetry collects stats every stats window and writes them out.
func (g *Game) flushTelemetry() {
	tick := g.sim.Tick()
	window := uint64(g.cfg.Telemetry.StatsWindow)
	if window == 0 || tick%window != 0 {
		return
	}

	stats := g.collectStats()
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteStats(stats); err != nil {
		g.logger.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, tick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
}

// collectStats snapshots the last completed tick for the HUD and the CSV.
func (g *Game) collectStats() telemetry.TickStats {
	g.lastStats = telemetry.Collect(g.sim)
	return g.lastStats
}

// logMatrix logs a summary of the running attraction matrix.
func (g *Game) logMatrix() {
	cfg := g.sim.Config()
	g.logger.Info("attraction matrix", "summary", telemetry.SummarizeMatrix(cfg.TypeCount, cfg.AttractionMatrix))
}
