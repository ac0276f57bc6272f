// Package hint splits a hex code into its three channel bytes, each tagged
// with the pure color of its channel ("#RR0000", "#00GG00", "#0000BB").
package hint

import (
	"github.com/robalobadob/colorquiz/internal/color"
)

// Channel names one of the three RGB channels.
type Channel string

const (
	ChannelRed   Channel = "red"
	ChannelGreen Channel = "green"
	ChannelBlue  Channel = "blue"
)

// Component is one two-digit slice of a hex code.
type Component struct {
	Channel Channel   `json:"channel"`
	Digits  string    `json:"digits"` // e.g. "3A"
	Value   int       `json:"value"`  // decoded byte
	Tint    color.Hex `json:"tint"`   // the channel's pure color at this intensity
}

// Breakdown is the hint for a single hex code.
type Breakdown struct {
	Hex        color.Hex    `json:"hex"`
	Components [3]Component `json:"components"`
}

// Decompose builds the breakdown for s. Input follows color.ParseHex rules.
func Decompose(s string) (Breakdown, error) {
	c, err := color.ParseHex(s)
	if err != nil {
		return Breakdown{}, err
	}
	h := c.Hex()
	digits := h.Bare()
	return Breakdown{
		Hex: h,
		Components: [3]Component{
			{ChannelRed, digits[0:2], c.R, color.RGB{R: c.R}.Hex()},
			{ChannelGreen, digits[2:4], c.G, color.RGB{G: c.G}.Hex()},
			{ChannelBlue, digits[4:6], c.B, color.RGB{B: c.B}.Hex()},
		},
	}, nil
}

// DecomposeAll builds breakdowns for several codes, failing on the first bad one.
func DecomposeAll(codes ...color.Hex) ([]Breakdown, error) {
	out := make([]Breakdown, 0, len(codes))
	for _, h := range codes {
		b, err := Decompose(string(h))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
