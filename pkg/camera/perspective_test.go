package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-photoncore/pkg/core"
)

func TestDefaultScreenWindowPreservesAspect(t *testing.T) {
	w := DefaultScreenWindow(1920, 1080)
	assert.InDelta(t, float64(1920)/1080, w.XMax, 1e-9)
	assert.Equal(t, -1.0, w.YMin)

	tall := DefaultScreenWindow(1080, 1920)
	assert.Equal(t, -1.0, tall.XMin)
	assert.InDelta(t, float64(1920)/1080, tall.YMax, 1e-9)
}

func TestGenerateRayCenterPixelPointsDownViewDirection(t *testing.T) {
	resX, resY := 200, 100
	window := DefaultScreenWindow(resX, resY)
	cam := NewPerspective(core.Identity(), 90, resX, resY, window, 0, 1)

	ray := cam.GenerateRay(Sample{PFilm: core.NewVec2(float64(resX)/2, float64(resY)/2), FilterWeight: 1})
	assert.Greater(t, ray.Direction.Z, 0.99)
}

func TestGenerateRaySetsDifferentialsForTextureFiltering(t *testing.T) {
	resX, resY := 64, 64
	window := DefaultScreenWindow(resX, resY)
	cam := NewPerspective(core.Identity(), 60, resX, resY, window, 0, 1)

	ray := cam.GenerateRay(Sample{PFilm: core.NewVec2(32, 32), FilterWeight: 1})
	assert.True(t, ray.HasDifferentials)
	assert.NotEqual(t, ray.Direction, ray.RxDirection)
}

func TestGenerateRayThroughLensCenterStartsAtPinholeOrigin(t *testing.T) {
	resX, resY := 64, 64
	window := DefaultScreenWindow(resX, resY)
	cam := NewPerspective(core.Identity(), 60, resX, resY, window, 0.1, 5)

	ray := cam.GenerateRay(Sample{PFilm: core.NewVec2(32, 32), PLens: core.NewVec2(0.5, 0.5), FilterWeight: 1})
	// The concentric-disk sample at u=(0.5,0.5) maps to the disk origin, so
	// the thin-lens ray starts at the pinhole position.
	assert.InDelta(t, 0, ray.Origin.X, 1e-9)
	assert.InDelta(t, 0, ray.Origin.Y, 1e-9)
	assert.False(t, math.IsNaN(ray.Direction.Length()))
}
