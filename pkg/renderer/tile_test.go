package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTilesCoverExactlyOnce(t *testing.T) {
	tiles := Tiles(70, 50, 32)

	covered := make([][]bool, 50)
	for y := range covered {
		covered[y] = make([]bool, 70)
	}
	for _, tile := range tiles {
		for y := tile.MinY; y < tile.MaxY; y++ {
			for x := tile.MinX; x < tile.MaxX; x++ {
				assert.False(t, covered[y][x], "pixel (%d,%d) covered twice", x, y)
				covered[y][x] = true
			}
		}
	}
	for y := 0; y < 50; y++ {
		for x := 0; x < 70; x++ {
			assert.True(t, covered[y][x], "pixel (%d,%d) never covered", x, y)
		}
	}
}

func TestTilesClipToImageBounds(t *testing.T) {
	tiles := Tiles(40, 40, 32)
	for _, tile := range tiles {
		assert.LessOrEqual(t, tile.MaxX, 40)
		assert.LessOrEqual(t, tile.MaxY, 40)
	}
}

func TestTilesDefaultsWhenSizeNonPositive(t *testing.T) {
	tiles := Tiles(10, 10, 0)
	assert.Len(t, tiles, 1)
}
