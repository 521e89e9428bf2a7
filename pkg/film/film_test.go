package film

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/spectrum"
)

func TestRGBFilmUntouchedPixelIsZero(t *testing.T) {
	f := NewRGBFilm(4, 4)
	rgb := f.GetPixelRGB(1, 1)
	assert.Equal(t, [3]float64{}, rgb)
}

func TestRGBFilmWhiteSpectrumProducesNeutralGray(t *testing.T) {
	f := NewRGBFilm(1, 1)
	sw := spectrum.SampleUniform(0.3)
	white := spectrum.NewSampledSpectrum(1)
	f.AddSample(0, 0, white, sw, 1)
	rgb := f.GetPixelRGB(0, 0)
	assert.InDelta(t, rgb[0], rgb[1], 0.2)
	assert.InDelta(t, rgb[1], rgb[2], 0.2)
	assert.Greater(t, rgb[0], 0.0)
}

func TestRGBFilmAccumulatesWeightedAverage(t *testing.T) {
	f := NewRGBFilm(1, 1)
	sw := spectrum.SampleUniform(0.5)
	white := spectrum.NewSampledSpectrum(1)
	f.AddSample(0, 0, white, sw, 1)
	f.AddSample(0, 0, white, sw, 1)
	single := NewRGBFilm(1, 1)
	single.AddSample(0, 0, white, sw, 1)

	got := f.GetPixelRGB(0, 0)
	want := single.GetPixelRGB(0, 0)
	assert.InDelta(t, want[0], got[0], 1e-9)
}

func TestRGBFilmWriteImageProducesPNGFile(t *testing.T) {
	f := NewRGBFilm(2, 2)
	sw := spectrum.SampleVisible(0.4)
	white := spectrum.NewSampledSpectrum(1)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			f.AddSample(x, y, white, sw, 1)
		}
	}
	path := t.TempDir() + "/out.png"
	require.NoError(t, f.WriteImage(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTileFilmMergeMatchesDirectAccumulation(t *testing.T) {
	sw := spectrum.SampleVisible(0.6)
	l := spectrum.NewSampledSpectrum(2)

	direct := NewRGBFilm(4, 4)
	direct.AddSample(2, 1, l, sw, 1)

	shadowed := NewRGBFilm(4, 4)
	tile := NewTileFilm(2, 0, 2, 2)
	tile.AddSample(2, 1, l, sw, 1)
	tile.MergeInto(shadowed)

	want := direct.GetPixelRGB(2, 1)
	got := shadowed.GetPixelRGB(2, 1)
	assert.InDelta(t, want[0], got[0], 1e-9)
	assert.InDelta(t, want[1], got[1], 1e-9)
	assert.InDelta(t, want[2], got[2], 1e-9)
}

func TestBoxFilterEvaluateIsZeroOutsideRadius(t *testing.T) {
	bf := NewBoxFilter(0.5)
	assert.Equal(t, 1.0, bf.Evaluate(core.NewVec2(0.4, -0.4)))
	assert.Equal(t, 0.0, bf.Evaluate(core.NewVec2(0.6, 0)))
}

func TestBoxFilterSampleStaysWithinRadius(t *testing.T) {
	bf := NewBoxFilter(1.5)
	p, w := bf.Sample(core.NewVec2(0.9, 0.1))
	assert.Equal(t, 1.0, w)
	assert.LessOrEqual(t, p.X, bf.R)
	assert.GreaterOrEqual(t, p.X, -bf.R)
}
