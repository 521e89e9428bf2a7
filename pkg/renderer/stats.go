package renderer

import "time"

// Stats summarizes a completed render. It is reported once at the end
// rather than streamed; there is no live-progress callback.
type Stats struct {
	TilesRendered   int
	PixelsRendered  int
	SamplesRendered int
	Elapsed         time.Duration
}
