// Package integrator implements the renderer's light transport algorithms:
// a common per-pixel-sample driver plus RandomWalk, SimplePath, and the
// SurfaceNormal/AmbientOcclusion debug integrators, all sharing that same
// driver and built against bxdf.BSDF/light.Light/spectrum.SampledSpectrum.
package integrator

import (
	"github.com/df07/go-photoncore/pkg/accel"
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/light"
	"github.com/df07/go-photoncore/pkg/sampler"
	"github.com/df07/go-photoncore/pkg/shape"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// Scene is the minimal surface an integrator needs: ray intersection
// against the scene's acceleration structure, and access to its lights.
// Defined locally (rather than importing pkg/scene) so this package has no
// dependency on scene assembly, matching the minimal-local-interface
// pattern already used for pkg/bxdf.RNG.
type Scene interface {
	Intersect(ray core.Ray, tMin, tMax float64) (*shape.SurfaceInteraction, *accel.Primitive, bool)
	IntersectP(ray core.Ray, tMin, tMax float64) bool
	Lights() []light.Light
	LightSampler() light.Sampler
	// InfiniteLights returns lights that emit even when a ray escapes the
	// scene with no intersection (environment maps). This light set
	// (DiffuseAreaLight, DistantLight) has none, so scene implementations
	// are expected to return an empty slice; the hook exists so the common
	// driver's contract stays uniform regardless of light type.
	InfiniteLights() []light.Light
}

// FilmTarget is satisfied by both film.RGBFilm and film.TileFilm, letting
// the driver write through whichever accumulation strategy the caller
// (single-threaded preview vs. tile-parallel render) is using.
type FilmTarget interface {
	AddSample(x, y int, l spectrum.SampledSpectrum, lambda spectrum.SampledWavelengths, weight float64)
}

// Li is the per-ray radiance estimator every integrator implements.
type Li interface {
	Li(ray core.Ray, lambda *spectrum.SampledWavelengths, s sampler.Sampler, scene Scene) spectrum.SampledSpectrum
}
