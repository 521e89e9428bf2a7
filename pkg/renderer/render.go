package renderer

import (
	"time"

	"github.com/df07/go-photoncore/pkg/film"
	"github.com/df07/go-photoncore/pkg/integrator"
	"github.com/df07/go-photoncore/pkg/scene"
)

// DefaultTileSize is the default tile edge length in pixels.
const DefaultTileSize = 32

// Render drives sc's full image through li across numWorkers goroutines
// (runtime.NumCPU() if <= 0) and returns the resolved film plus summary
// stats: shared-nothing per-tile state, a per-tile film.TileFilm shadow,
// and each shadow merged into the shared film.RGBFilm once the pool has
// finished every tile.
func Render(sc *scene.Scene, li integrator.Li, numWorkers int) (*film.RGBFilm, Stats) {
	cfg := sc.SamplingConfig
	out := film.NewRGBFilm(cfg.Width, cfg.Height)
	filt := film.NewBoxFilter(0.5)
	tiles := Tiles(cfg.Width, cfg.Height, DefaultTileSize)

	pool := NewWorkerPool(sc.Camera, filt, sc, li, cfg.SamplesPerPixel, numWorkers)

	start := time.Now()
	results := pool.Run(tiles)

	var stats Stats
	for _, r := range results {
		r.Shadow.MergeInto(out)
		stats.TilesRendered++
		stats.PixelsRendered += r.Tile.width() * r.Tile.height()
		stats.SamplesRendered += r.Samples
	}
	stats.Elapsed = time.Since(start)

	return out, stats
}
