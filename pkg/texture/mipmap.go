package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/df07/go-photoncore/pkg/core"

	_ "github.com/chai2010/webp"
	_ "image/jpeg"
	_ "image/png"
)

// Wrap selects how out-of-[0,1) texture coordinates are resolved.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClamp
	WrapBlack
)

// Filter selects the reconstruction/minification strategy.
type Filter int

const (
	FilterPoint Filter = iota
	FilterBilinear
	FilterTrilinear
	FilterEWA
)

// MIPMap is a pyramid of progressively half-resolution RGBA levels used to
// avoid aliasing when a texture is minified. Levels beyond the base are
// built with golang.org/x/image/draw's bilinear scaler for the
// "bilinear"/"ewa" filters, and with imaging.Resize's Lanczos kernel for
// "trilinear" level generation.
type MIPMap struct {
	levels []*image.RGBA
	Wrap   Wrap
	Filter Filter
}

// LoadMIPMap decodes an image file (PNG/JPEG/WebP via the blank-imported
// codecs) and builds a full mip pyramid down to 1x1.
func LoadMIPMap(path string, wrap Wrap, filter Filter) (*MIPMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return NewMIPMap(img, wrap, filter), nil
}

// NewMIPMap builds a pyramid from an already-decoded image.
func NewMIPMap(img image.Image, wrap Wrap, filter Filter) *MIPMap {
	base := toRGBA(img)
	m := &MIPMap{levels: []*image.RGBA{base}, Wrap: wrap, Filter: filter}

	cur := base
	for cur.Bounds().Dx() > 1 || cur.Bounds().Dy() > 1 {
		w := max(1, cur.Bounds().Dx()/2)
		h := max(1, cur.Bounds().Dy()/2)
		var next *image.RGBA
		if filter == FilterTrilinear {
			next = toRGBA(imaging.Resize(cur, w, h, imaging.Lanczos))
		} else {
			next = image.NewRGBA(image.Rect(0, 0, w, h))
			draw.BiLinear.Scale(next, next.Bounds(), cur, cur.Bounds(), draw.Over, nil)
		}
		m.levels = append(m.levels, next)
		cur = next
	}
	return m
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

// NumLevels reports the pyramid depth, level 0 being the full-resolution
// base image.
func (m *MIPMap) NumLevels() int { return len(m.levels) }

// Lookup samples the texture at uv (in [0,1)^2) with the given footprint
// (the screen-space derivative magnitude in uv, used to pick/blend mip
// levels). Returns a linear RGB triple in [0,1].
func (m *MIPMap) Lookup(uv core.Vec2, width float64) [3]float64 {
	switch m.Filter {
	case FilterPoint:
		return m.texel(0, uv)
	case FilterBilinear:
		return m.bilinear(0, uv)
	case FilterEWA:
		return m.triangleBlend(uv, width)
	default: // FilterTrilinear
		return m.triangleBlend(uv, width)
	}
}

// triangleBlend picks the mip level whose texel footprint best matches
// width and linearly blends the two adjacent integer levels, PBRT's
// triangle-filter MIPMap lookup approximation (used here for both the
// "trilinear" and, as a simplification, "ewa" filter modes — a true
// elliptically weighted average needs an anisotropic footprint this
// scalar width doesn't carry).
func (m *MIPMap) triangleBlend(uv core.Vec2, width float64) [3]float64 {
	nLevels := float64(len(m.levels))
	level := nLevels - 1 + math.Log2(math.Max(width, 1e-8))
	if level < 0 {
		return m.bilinear(0, uv)
	}
	if level >= nLevels-1 {
		return m.texel(len(m.levels)-1, uv)
	}
	lo := int(level)
	frac := level - float64(lo)
	a := m.bilinear(lo, uv)
	b := m.bilinear(lo+1, uv)
	var out [3]float64
	for i := range out {
		out[i] = (1-frac)*a[i] + frac*b[i]
	}
	return out
}

func (m *MIPMap) bilinear(level int, uv core.Vec2) [3]float64 {
	img := m.levels[clampInt(level, 0, len(m.levels)-1)]
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	x := uv.X*float64(w) - 0.5
	y := uv.Y*float64(h) - 0.5
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	dx, dy := x-float64(x0), y-float64(y0)

	c00 := m.texelAt(img, x0, y0)
	c10 := m.texelAt(img, x0+1, y0)
	c01 := m.texelAt(img, x0, y0+1)
	c11 := m.texelAt(img, x0+1, y0+1)

	var out [3]float64
	for i := range out {
		top := (1-dx)*c00[i] + dx*c10[i]
		bot := (1-dx)*c01[i] + dx*c11[i]
		out[i] = (1-dy)*top + dy*bot
	}
	return out
}

func (m *MIPMap) texel(level int, uv core.Vec2) [3]float64 {
	img := m.levels[clampInt(level, 0, len(m.levels)-1)]
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	x := int(uv.X * float64(w))
	y := int(uv.Y * float64(h))
	return m.texelAt(img, x, y)
}

func (m *MIPMap) texelAt(img *image.RGBA, x, y int) [3]float64 {
	b := img.Bounds()
	switch m.Wrap {
	case WrapRepeat:
		x = wrapMod(x, b.Dx()) + b.Min.X
		y = wrapMod(y, b.Dy()) + b.Min.Y
	case WrapClamp:
		x = clampInt(x, b.Min.X, b.Max.X-1)
		y = clampInt(y, b.Min.Y, b.Max.Y-1)
	case WrapBlack:
		if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
			return [3]float64{}
		}
	}
	c := color.RGBA64Model.Convert(img.At(x, y)).(color.RGBA64)
	return [3]float64{
		srgbToLinear(float64(c.R) / 65535),
		srgbToLinear(float64(c.G) / 65535),
		srgbToLinear(float64(c.B) / 65535),
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func wrapMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
