package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-photoncore/pkg/camera"
	"github.com/df07/go-photoncore/pkg/film"
	"github.com/df07/go-photoncore/pkg/integrator"
	"github.com/df07/go-photoncore/pkg/sampler"
)

// TileResult is what a worker reports back after finishing one tile: its
// private film shadow, ready to merge, and how many pixel samples it took.
type TileResult struct {
	Tile    Tile
	Shadow  *film.TileFilm
	Samples int
}

// WorkerPool drives numWorkers goroutines, each pulling tiles from a shared
// channel and evaluating every pixel sample in its tile via
// integrator.EvaluatePixelSample against a fixed samples-per-pixel budget.
type WorkerPool struct {
	numWorkers int
	cam        *camera.Perspective
	filt       film.Filter
	scene      integrator.Scene
	li         integrator.Li
	spp        int
}

// NewWorkerPool builds a pool of numWorkers (runtime.NumCPU() if <= 0)
// workers that will each render whole tiles against scene using li.
func NewWorkerPool(cam *camera.Perspective, filt film.Filter, scene integrator.Scene, li integrator.Li, spp, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers, cam: cam, filt: filt, scene: scene, li: li, spp: spp}
}

// Run renders every tile in tiles and returns one TileResult per tile, in
// no particular order; the film merge is commutative so result order
// never affects the output image.
func (wp *WorkerPool) Run(tiles []Tile) []TileResult {
	taskCh := make(chan Tile, len(tiles))
	for _, t := range tiles {
		taskCh <- t
	}
	close(taskCh)

	resultCh := make(chan TileResult, len(tiles))
	var wg sync.WaitGroup
	for w := 0; w < wp.numWorkers; w++ {
		wg.Add(1)
		go wp.runWorker(int64(w)+1, taskCh, resultCh, &wg)
	}
	wg.Wait()
	close(resultCh)

	results := make([]TileResult, 0, len(tiles))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// runWorker owns one sampler for its whole lifetime; EvaluatePixelSample
// reseeds it per (pixel, sample_index), so reuse across tiles is safe and
// avoids re-allocating a PRNG per tile.
func (wp *WorkerPool) runWorker(workerSeed int64, taskCh <-chan Tile, resultCh chan<- TileResult, wg *sync.WaitGroup) {
	defer wg.Done()
	s := sampler.NewIndependent(workerSeed)

	for tile := range taskCh {
		shadow := film.NewTileFilm(tile.MinX, tile.MinY, tile.width(), tile.height())
		samples := 0
		for y := tile.MinY; y < tile.MaxY; y++ {
			for x := tile.MinX; x < tile.MaxX; x++ {
				for i := 0; i < wp.spp; i++ {
					integrator.EvaluatePixelSample([2]int{x, y}, i, s, wp.cam, wp.filt, wp.scene, wp.li, shadow)
					samples++
				}
			}
		}
		resultCh <- TileResult{Tile: tile, Shadow: shadow, Samples: samples}
	}
}
