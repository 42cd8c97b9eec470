package settings

import (
	"fmt"

	"github.com/kozaktomas/photo-grid/internal/geometry"
)

// ParseHexColor parses a "#RRGGBB" string into an RGB triple. Anything
// malformed falls back to black, the default grid color.
func ParseHexColor(s string) geometry.RGB {
	var r, g, b uint8
	if n, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return geometry.RGB{}
	}
	return geometry.RGB{R: r, G: g, B: b}
}

// FormatHexColor renders an RGB triple as "#RRGGBB".
func FormatHexColor(c geometry.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
