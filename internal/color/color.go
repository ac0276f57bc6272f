// internal/color/color.go
//
// Hex ⇄ RGB codec for the quiz engine.
// Responsibilities:
//   - Parse 6-digit hex codes (optional leading '#', any letter case).
//   - Render RGB triples in the canonical "#RRGGBB" display form.
//   - Reject malformed input instead of coercing it.
//
// Each channel is exactly one byte, so the conversion is lossless both ways.
package color

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat is returned for hex strings that are not exactly six hex digits.
	ErrInvalidFormat = errors.New("invalid hex color")
	// ErrInvalidRange is returned when an RGB channel lies outside [0, 255].
	ErrInvalidRange = errors.New("rgb channel out of range")
)

// RGB is a color as three integer channels in [0, 255].
// The zero value is black and valid.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex is a canonical hex color: '#' followed by six uppercase hex digits.
type Hex string

// NewRGB builds an RGB triple, rejecting channels outside [0, 255].
func NewRGB(r, g, b int) (RGB, error) {
	c := RGB{R: r, G: g, B: b}
	if err := c.Validate(); err != nil {
		return RGB{}, err
	}
	return c, nil
}

// Validate reports ErrInvalidRange if any channel is outside [0, 255].
func (c RGB) Validate() error {
	for _, ch := range [...]struct {
		name string
		v    int
	}{{"r", c.R}, {"g", c.G}, {"b", c.B}} {
		if ch.v < 0 || ch.v > 255 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidRange, ch.name, ch.v)
		}
	}
	return nil
}

// ParseHex decodes "#RRGGBB" or "RRGGBB" (case-insensitive) into RGB.
func ParseHex(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return RGB{}, fmt.Errorf("%w %q: must be 6 hex digits", ErrInvalidFormat, s)
	}
	var v [3]int
	for i := range v {
		hi, ok1 := nibble(digits[2*i])
		lo, ok2 := nibble(digits[2*i+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("%w %q: non-hex character", ErrInvalidFormat, s)
		}
		v[i] = hi<<4 | lo
	}
	return RGB{R: v[0], G: v[1], B: v[2]}, nil
}

// NormalizeHex parses s and returns its canonical form.
func NormalizeHex(s string) (Hex, error) {
	c, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Hex renders the color as "#RRGGBB". Channels are assumed valid.
func (c RGB) Hex() Hex {
	return Hex(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGB decodes h. It fails only for values that did not come from this package.
func (h Hex) RGB() (RGB, error) { return ParseHex(string(h)) }

// Bare returns the six digits without the leading '#'.
func (h Hex) Bare() string { return strings.TrimPrefix(string(h), "#") }

func (h Hex) String() string { return string(h) }

// nibble decodes one hex digit.
func nibble(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}
