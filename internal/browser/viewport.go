package browser

import (
	"math/rand"

	"github.com/andywolf/issuecast/internal/config"
)

// Viewport is a window size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// RandomViewport picks a size uniformly within bounds, inclusive. Inverted
// bounds collapse to the minimum.
func RandomViewport(rng *rand.Rand, bounds config.ViewportConfig) Viewport {
	return Viewport{
		Width:  between(rng, bounds.MinWidth, bounds.MaxWidth),
		Height: between(rng, bounds.MinHeight, bounds.MaxHeight),
	}
}

func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
