// Package scene assembles a renderable Scene from parsed input: an
// acceleration structure, its lights, a camera, and the sampling
// configuration that drives the render loop.
package scene

import (
	"github.com/df07/go-photoncore/pkg/accel"
	"github.com/df07/go-photoncore/pkg/camera"
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/light"
	"github.com/df07/go-photoncore/pkg/shape"
)

// SamplingConfig holds image resolution and the per-pixel sample/bounce
// budget. Integrators run a fixed sample count to a fixed max depth; there
// is no adaptive-sampling or Russian-roulette configuration to carry.
type SamplingConfig struct {
	Width, Height   int
	SamplesPerPixel int
	MaxDepth        int
}

// Scene bundles everything an integrator and the render driver need: ray
// intersection via the BVH, the light list and sampler for NEE, and a
// camera to generate rays. It satisfies pkg/integrator.Scene.
type Scene struct {
	BVH            *accel.BVH
	SceneLights    []light.Light
	Sampler        light.Sampler
	Camera         *camera.Perspective
	SamplingConfig SamplingConfig
}

// New builds a Scene from its assembled parts, constructing a uniform
// light sampler over the given lights.
func New(bvh *accel.BVH, lights []light.Light, cam *camera.Perspective, cfg SamplingConfig) *Scene {
	return &Scene{
		BVH:            bvh,
		SceneLights:    lights,
		Sampler:        light.NewUniformSampler(lights),
		Camera:         cam,
		SamplingConfig: cfg,
	}
}

// Intersect and IntersectP satisfy integrator.Scene by delegating straight
// to the BVH.
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*shape.SurfaceInteraction, *accel.Primitive, bool) {
	return s.BVH.Intersect(ray, tMin, tMax)
}

func (s *Scene) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	return s.BVH.IntersectP(ray, tMin, tMax)
}

func (s *Scene) Lights() []light.Light { return s.SceneLights }

func (s *Scene) LightSampler() light.Sampler { return s.Sampler }

// InfiniteLights returns lights visible to rays that escape the scene with
// no intersection. This light set has no environment-map equivalent, so
// this is always empty; the hook exists for integrators that want to add
// escaped-ray contributions uniformly regardless of light type.
func (s *Scene) InfiniteLights() []light.Light { return nil }
