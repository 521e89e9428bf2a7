package film

import (
	"github.com/df07/go-photoncore/pkg/spectrum"
)

// TileFilm is a private accumulation buffer over one tile's pixel bounds:
// workers accumulate into their own tile shadow with no contention; each
// shadow is then merged into the shared RGBFilm once under the film's own
// lock, so a merge costs O(tile area) rather than O(image area) and no lock
// is taken per sample.
type TileFilm struct {
	MinX, MinY int
	Width      int
	Height     int
	pixels     []pixel
}

// NewTileFilm allocates a shadow buffer for the tile [minX,minX+width) x
// [minY,minY+height).
func NewTileFilm(minX, minY, width, height int) *TileFilm {
	return &TileFilm{MinX: minX, MinY: minY, Width: width, Height: height, pixels: make([]pixel, width*height)}
}

// AddSample accumulates into the tile shadow using image-space (x,y); out
// of tile-bounds coordinates are ignored.
func (t *TileFilm) AddSample(x, y int, l spectrum.SampledSpectrum, lambda spectrum.SampledWavelengths, weight float64) {
	lx, ly := x-t.MinX, y-t.MinY
	if lx < 0 || lx >= t.Width || ly < 0 || ly >= t.Height {
		return
	}
	rgb := sensorRGB(l, lambda)
	p := &t.pixels[ly*t.Width+lx]
	p.rgbSum[0] += rgb[0] * weight
	p.rgbSum[1] += rgb[1] * weight
	p.rgbSum[2] += rgb[2] * weight
	p.weightSum += weight
}

// MergeInto adds every accumulated pixel in the tile shadow into the
// shared film under f's own lock, called once per tile on completion; the
// lock is only ever held for O(tile area), so contention is limited to
// tiles merging at the same instant rather than serializing per sample.
func (t *TileFilm) MergeInto(f *RGBFilm) {
	f.mergeMu.Lock()
	defer f.mergeMu.Unlock()
	for ly := 0; ly < t.Height; ly++ {
		for lx := 0; lx < t.Width; lx++ {
			src := t.pixels[ly*t.Width+lx]
			if src.weightSum == 0 {
				continue
			}
			dst := &f.pixels[f.index(t.MinX+lx, t.MinY+ly)]
			dst.rgbSum[0] += src.rgbSum[0]
			dst.rgbSum[1] += src.rgbSum[1]
			dst.rgbSum[2] += src.rgbSum[2]
			dst.weightSum += src.weightSum
		}
	}
}
