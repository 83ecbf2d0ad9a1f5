package parse

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"BLACK":      {0, 0, 0, 255},
	"WHITE":      {255, 255, 255, 255},
	"RED":        {255, 0, 0, 255},
	"GREEN":      {0, 255, 0, 255},
	"BLUE":       {0, 0, 255, 255},
	"YELLOW":     {255, 255, 0, 255},
	"GRAY":       {128, 128, 128, 255},
	"DARK_GRAY":  {64, 64, 64, 255},
	"LIGHT_GRAY": {192, 192, 192, 255},
	"ORANGE":     {255, 200, 0, 255},
	"MAGENTA":    {255, 0, 255, 255},
	"CYAN":       {0, 255, 255, 255},
	"PINK":       {255, 175, 175, 255},
}

// ColorLookup resolves skin defined color names. It may be nil.
type ColorLookup func(name string) (color.NRGBA, bool)

// Color parses "#RRGGBB", "#RRGGBBAA", a built-in name or a name known to
// lookup, optionally followed by "/alpha" which replaces the alpha channel.
func Color(s string, lookup ColorLookup) (color.NRGBA, error) {
	base, alphaStr, hasAlpha := strings.Cut(s, "/")
	c, err := baseColor(base, lookup)
	if err != nil {
		return color.NRGBA{}, err
	}
	if hasAlpha {
		a, err := Alpha(alphaStr)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color '%s': %w", s, err)
		}
		c.A = uint8(a*255 + 0.5)
	}
	return c, nil
}

func baseColor(s string, lookup ColorLookup) (color.NRGBA, error) {
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return color.NRGBA{}, fmt.Errorf("invalid color '%s'", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color '%s'", s)
		}
		if len(hex) == 6 {
			return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}
	if lookup != nil {
		if c, ok := lookup(s); ok {
			return c, nil
		}
	}
	if c, ok := namedColors[strings.ToUpper(s)]; ok {
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid color '%s'", s)
}
