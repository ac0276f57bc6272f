package color

// MaxDistance is the Manhattan distance between black and white.
const MaxDistance = 3 * 255

// Distance returns |ΔR| + |ΔG| + |ΔB| between a and b.
// Both inputs must hold channels in [0, 255]; otherwise ErrInvalidRange.
func Distance(a, b RGB) (int, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return manhattan(a, b), nil
}

// HexDistance parses both codes and returns their distance.
func HexDistance(a, b string) (int, error) {
	ca, err := ParseHex(a)
	if err != nil {
		return 0, err
	}
	cb, err := ParseHex(b)
	if err != nil {
		return 0, err
	}
	return manhattan(ca, cb), nil
}

// MustDistance is Distance for values produced by ParseHex or random draws,
// which are always in range.
func MustDistance(a, b RGB) int {
	d, err := Distance(a, b)
	if err != nil {
		panic(err)
	}
	return d
}

func manhattan(a, b RGB) int {
	return abs(a.R-b.R) + abs(a.G-b.G) + abs(a.B-b.B)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
