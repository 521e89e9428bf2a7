// Package renderer implements tile-parallel scheduling: a worker pool
// pulls tiles from a shared queue, each worker accumulates its tile's
// samples into a private film.TileFilm shadow, and Render merges each
// shadow into the shared film.RGBFilm once all tiles are done.
package renderer

// Tile is a rectangular region of the film in pixel coordinates,
// [MinX,MaxX) x [MinY,MaxY).
type Tile struct {
	MinX, MinY, MaxX, MaxY int
}

func (t Tile) width() int  { return t.MaxX - t.MinX }
func (t Tile) height() int { return t.MaxY - t.MinY }

// Tiles partitions a width x height image into tileSize x tileSize tiles,
// row-major, with the last tile in each row/column clipped to the image
// bounds. Tile order carries no rendering guarantee; the output must be
// independent of tile processing order.
func Tiles(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = 32
	}
	var tiles []Tile
	for y := 0; y < height; y += tileSize {
		maxY := y + tileSize
		if maxY > height {
			maxY = height
		}
		for x := 0; x < width; x += tileSize {
			maxX := x + tileSize
			if maxX > width {
				maxX = width
			}
			tiles = append(tiles, Tile{MinX: x, MinY: y, MaxX: maxX, MaxY: maxY})
		}
	}
	return tiles
}
