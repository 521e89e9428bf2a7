package integrator

import (
	"github.com/df07/go-photoncore/pkg/camera"
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/film"
	"github.com/df07/go-photoncore/pkg/sampler"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// EvaluatePixelSample is the common contract shared by every integrator:
// reseed the sampler for this (pixel,sample_index), sample a hero
// wavelength, draw a camera sample through the filter, generate the ray,
// estimate radiance, and add the weighted contribution to the film.
func EvaluatePixelSample(pixel [2]int, sampleIndex int, s sampler.Sampler, cam *camera.Perspective, filt film.Filter, scene Scene, li Li, target FilmTarget) {
	s.StartPixelSample(pixel, sampleIndex)

	lambda := spectrum.SampleVisible(s.Get1D())

	filterOffset, filterWeight := filt.Sample(s.Get2D())
	pFilm := core.NewVec2(
		float64(pixel[0])+0.5+filterOffset.X,
		float64(pixel[1])+0.5+filterOffset.Y,
	)
	pLens := s.Get2D()

	ray := cam.GenerateRay(camera.Sample{PFilm: pFilm, PLens: pLens, FilterWeight: filterWeight})

	l := li.Li(ray, &lambda, s, scene)
	target.AddSample(pixel[0], pixel[1], l, lambda, filterWeight)
}
