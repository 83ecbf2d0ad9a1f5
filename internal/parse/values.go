// Package parse converts skin file fields into typed values.
package parse

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"
)

// Int parses a decimal integer.
func Int(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s)
	}
	return n, nil
}

// IntRange parses an integer within [lo, hi].
func IntRange(what, s string, lo, hi int) (int, error) {
	n, err := Int(s)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s '%s': must be between %d and %d", what, s, lo, hi)
	}
	return n, nil
}

// Float parses a decimal floating point number.
func Float(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s)
	}
	return f, nil
}

// Unit parses a float within [0, 1]. what names the value in errors, e.g.
// "alpha" or "weight".
func Unit(what, s string) (float64, error) {
	f, err := Float(s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("invalid %s '%s': must be between 0 and 1", what, s)
	}
	return f, nil
}

// Alpha parses an alpha value in [0, 1].
func Alpha(s string) (float64, error) {
	return Unit("alpha", s)
}

// Layer parses a z-order in [0, 1000].
func Layer(s string) (int, error) {
	return IntRange("layer", s, 0, 1000)
}

// Bool accepts true/false, yes/no, on/off and 1/0.
func Bool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean '%s'", s)
}

// Size parses "WxH" with both components positive.
func Size(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size '%s'", s)
	}
	width, err1 := strconv.Atoi(w)
	height, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return image.Point{}, fmt.Errorf("invalid size '%s'", s)
	}
	return image.Pt(width, height), nil
}

// Enum looks s up case-insensitively in values. what names the enumeration in
// the error, which lists every valid token.
func Enum[T any](what, s string, values map[string]T) (T, error) {
	if v, ok := values[strings.ToUpper(s)]; ok {
		return v, nil
	}
	var zero T
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return zero, fmt.Errorf("invalid %s '%s' (valid: %s)", what, s, strings.Join(keys, ", "))
}

// IsNull reports whether s stands for an absent optional reference.
func IsNull(s string) bool {
	return s == "null" || s == "none"
}
