// Package film implements RGBFilm: per-pixel weighted accumulation of
// sensor RGB, an output color-space matrix, and 8-bit sRGB PNG encoding,
// built on the CIE/XYZ machinery in pkg/spectrum the way a PixelSensor
// converts a SampledSpectrum+SampledWavelengths pair to XYZ.
package film

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sync"

	"github.com/df07/go-photoncore/pkg/spectrum"
)

// pixel holds the running (Σ w·rgb, Σ w) accumulation for one pixel.
type pixel struct {
	rgbSum    [3]float64
	weightSum float64
}

// RGBFilm accumulates weighted radiance samples into sensor RGB and
// resolves them to display-referred sRGB on read.
type RGBFilm struct {
	Width, Height int
	pixels        []pixel
	mergeMu       sync.Mutex
}

// NewRGBFilm builds a blank film of the given pixel resolution.
func NewRGBFilm(width, height int) *RGBFilm {
	return &RGBFilm{Width: width, Height: height, pixels: make([]pixel, width*height)}
}

func (f *RGBFilm) index(x, y int) int { return y*f.Width + x }

// AddSample converts L (evaluated at lambda) to sensor RGB and adds its
// weighted contribution to the pixel at (x,y). This is the only mutation a
// rendering worker performs on shared film state; callers are expected to
// route it through a per-tile TileFilm shadow (see tile.go) rather than
// calling it directly from multiple goroutines.
func (f *RGBFilm) AddSample(x, y int, l spectrum.SampledSpectrum, lambda spectrum.SampledWavelengths, weight float64) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	rgb := sensorRGB(l, lambda)
	p := &f.pixels[f.index(x, y)]
	p.rgbSum[0] += rgb[0] * weight
	p.rgbSum[1] += rgb[1] * weight
	p.rgbSum[2] += rgb[2] * weight
	p.weightSum += weight
}

// GetPixelRGB returns the resolved output sRGB (linear, not gamma-encoded)
// for a pixel: output_rgb_from_sensor_rgb · (Σ w·rgb / Σ w), or zero for an
// untouched pixel.
func (f *RGBFilm) GetPixelRGB(x, y int) [3]float64 {
	p := f.pixels[f.index(x, y)]
	if p.weightSum == 0 {
		return [3]float64{}
	}
	avg := [3]float64{p.rgbSum[0] / p.weightSum, p.rgbSum[1] / p.weightSum, p.rgbSum[2] / p.weightSum}
	// output_rgb_from_sensor_rgb = srgb_from_xyz · xyz_from_sensor_rgb; this
	// renderer's sensor RGB already IS CIE XYZ (sensorRGB below integrates
	// directly against the CIE observer curves), so the composed matrix
	// reduces to XYZToSRGB alone.
	return spectrum.XYZToSRGB(spectrum.XYZ{X: avg[0], Y: avg[1], Z: avg[2]})
}

// sensorRGB integrates a SampledSpectrum against the CIE observer curves at
// its own sampled wavelengths, weighted by each wavelength's inverse PDF and
// averaged over the NumSamples hero wavelengths, per PBRT's
// PixelSensor::ToSensorRGB. The result is a CIE XYZ tristimulus value
// (sensor == XYZ for this renderer's single color space).
func sensorRGB(l spectrum.SampledSpectrum, lambda spectrum.SampledWavelengths) [3]float64 {
	xBar := spectrum.CIEX.Sample(lambda)
	yBar := spectrum.CIEY.Sample(lambda)
	zBar := spectrum.CIEZ.Sample(lambda)
	pdf := lambda.PDFVec()

	var x, y, z float64
	n := 0
	for i := range l.Values {
		if pdf[i] == 0 {
			continue
		}
		x += xBar.Values[i] * l.Values[i] / pdf[i]
		y += yBar.Values[i] * l.Values[i] / pdf[i]
		z += zBar.Values[i] * l.Values[i] / pdf[i]
		n++
	}
	if n == 0 {
		return [3]float64{}
	}
	norm := float64(n) * spectrum.CIEYIntegral
	return [3]float64{x / norm, y / norm, z / norm}
}

// WriteImage encodes the film as an 8-bit sRGB PNG, gamma-encoding each
// linear sRGB channel with the standard sRGB transfer curve.
func (f *RGBFilm) WriteImage(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			rgb := f.GetPixelRGB(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: encodeSRGB8(rgb[0]),
				G: encodeSRGB8(rgb[1]),
				B: encodeSRGB8(rgb[2]),
				A: 255,
			})
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output image: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("failed to encode output image: %w", err)
	}
	return nil
}

func encodeSRGB8(linear float64) uint8 {
	c := math.Max(0, math.Min(1, linear))
	if c <= 0.0031308 {
		c *= 12.92
	} else {
		c = 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	return uint8(math.Round(c * 255))
}
