// Package camera implements the Perspective camera that maps film-raster
// samples to rays in render space through the full screen/camera/raster
// transform chain.
package camera

import (
	"github.com/df07/go-photoncore/pkg/core"
)

// Sample is the input to GenerateRay: a point on the film in raster space,
// a point on the lens for depth-of-field, and the filter's importance
// weight for this sample.
type Sample struct {
	PFilm        core.Vec2
	PLens        core.Vec2
	FilterWeight float64
}

// Perspective generates rays for a pinhole or thin-lens camera. Precomputed
// transforms: screenFromCamera is the standard perspective projection,
// rasterFromScreen maps the (possibly non-square-aspect) screen window
// onto pixel raster space, and cameraFromRaster is their composed
// inverse.
type Perspective struct {
	CameraToRender core.Transform
	LensRadius     float64
	FocalDistance  float64

	cameraFromRaster core.Transform
	dxCamera         core.Vec3
	dyCamera         core.Vec3
}

// ScreenWindow is the visible extent of the camera's screen space, derived
// from the image's aspect ratio.
type ScreenWindow struct {
	XMin, XMax, YMin, YMax float64
}

// DefaultScreenWindow derives a screen window centered at the origin that
// preserves the image's aspect ratio, matching PBRT's convention of
// extending the window along whichever axis is longer.
func DefaultScreenWindow(resX, resY int) ScreenWindow {
	aspect := float64(resX) / float64(resY)
	if aspect > 1 {
		return ScreenWindow{XMin: -aspect, XMax: aspect, YMin: -1, YMax: 1}
	}
	return ScreenWindow{XMin: -1, XMax: 1, YMin: -1 / aspect, YMax: 1 / aspect}
}

// NewPerspective builds a perspective camera. cameraToRender is the
// CameraTransform (camera-space to render/world-space), fovDeg is the
// vertical/shorter-axis field of view in degrees, and resX/resY are the
// film's pixel resolution used to derive the raster transform.
func NewPerspective(cameraToRender core.Transform, fovDeg float64, resX, resY int, window ScreenWindow, lensRadius, focalDistance float64) *Perspective {
	screenFromCamera := core.Perspective(fovDeg, 1e-2, 1e3)

	// screenFromRaster: raster (0,0) top-left, (resX,resY) bottom-right,
	// maps onto the screen window with Y flipped (raster Y grows downward,
	// screen Y grows upward).
	screenFromRaster := core.Translate(core.NewVec3(window.XMin, window.YMax, 0)).
		Compose(core.Scale((window.XMax-window.XMin)/float64(resX), (window.YMin-window.YMax)/float64(resY), 1))

	cameraFromScreen := screenFromCamera.Inverse()
	cameraFromRaster := cameraFromScreen.Compose(screenFromRaster)

	p := &Perspective{
		CameraToRender:   cameraToRender,
		LensRadius:       lensRadius,
		FocalDistance:    focalDistance,
		cameraFromRaster: cameraFromRaster,
	}

	origin := cameraFromRaster.OnPoint(core.NewVec3(0, 0, 0))
	px := cameraFromRaster.OnPoint(core.NewVec3(1, 0, 0))
	py := cameraFromRaster.OnPoint(core.NewVec3(0, 1, 0))
	p.dxCamera = px.Subtract(origin)
	p.dyCamera = py.Subtract(origin)

	return p
}

// GenerateRay maps a film sample into a render-space ray, with
// differentials set from the raster-space image of the camera origin's x/y
// neighbors so integrators can synthesize texture footprints. For
// lens_radius>0 the ray is re-aimed through the focus plane to approximate
// a thin lens; lens_radius==0 is the pinhole case with no DOF.
func (c *Perspective) GenerateRay(s Sample) core.Ray {
	pCameraFilm := c.cameraFromRaster.OnPoint(core.NewVec3(s.PFilm.X, s.PFilm.Y, 0))
	dir := pCameraFilm.Normalize()

	origin := core.NewVec3(0, 0, 0)
	if c.LensRadius > 0 {
		lens := core.SampleUniformDiskConcentric(s.PLens).Multiply(c.LensRadius)
		ft := c.FocalDistance / dir.Z
		pFocus := origin.Add(dir.Multiply(ft))
		origin = core.NewVec3(lens.X, lens.Y, 0)
		dir = pFocus.Subtract(origin).Normalize()
	}

	ray := core.NewRay(origin, dir)
	ray.HasDifferentials = true
	// Differentials under depth of field would require re-deriving
	// dxCamera/dyCamera per focus distance; approximate with the pinhole
	// differentials rather than omitting them entirely.
	ray.RxOrigin, ray.RyOrigin = origin, origin
	ray.RxDirection = pCameraFilm.Add(c.dxCamera).Normalize()
	ray.RyDirection = pCameraFilm.Add(c.dyCamera).Normalize()

	renderRay, _ := c.CameraToRender.OnRay(ray)
	return renderRay
}
