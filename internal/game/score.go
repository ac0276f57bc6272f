package game

import (
	"math"
	"strconv"
	"strings"
)

// MaxGuesses is the number of guesses allowed per question.
const MaxGuesses = 3

// noCreditAttempt is what non-numeric attempt input is coerced to.
const noCreditAttempt = MaxGuesses + 1

// Score returns the points for a correct answer on the given attempt.
//
//	attempt 1 → 8, 2 → 4, 3 → 2, 4+ → 0; halved (rounded down) if a hint was used.
//
// attempt is normalized to max(1, |attempt|), so Score never fails.
func Score(attempt int, hintUsed bool) int {
	if attempt < 0 {
		attempt = -attempt
		if attempt < 0 { // math.MinInt
			attempt = math.MaxInt
		}
	}
	if attempt < 1 {
		attempt = 1
	}

	var points int
	switch attempt {
	case 1:
		points = 8
	case 2:
		points = 4
	case 3:
		points = 2
	default:
		points = 0
	}
	if hintUsed {
		points /= 2
	}
	return points
}

// ScoreAny scores untyped input such as decoded JSON.
// Numbers are floored after taking their absolute value, numeric strings are
// parsed, booleans count as 1 or 0, and anything else earns no credit.
// hintUsed is coerced by truthiness; "false" and "0" count as false.
func ScoreAny(attempt, hintUsed any) int {
	return Score(normalizeAttempt(attempt), truthy(hintUsed))
}

func normalizeAttempt(v any) int {
	var f float64
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return clampInt(float64(x))
	case uint:
		return clampInt(float64(x))
	case float32:
		f = float64(x)
	case float64:
		f = x
	case bool:
		// Number(true) == 1 in the browser client.
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return noCreditAttempt
		}
		f = p
	default:
		return noCreditAttempt
	}
	if math.IsNaN(f) {
		return noCreditAttempt
	}
	return clampInt(math.Floor(math.Abs(f)))
}

// clampInt converts f to int, saturating instead of overflowing.
func clampInt(f float64) int {
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != "" && x != "false" && x != "0"
	}
	return true
}

// ScorePreview tells the player what the next correct guess is worth.
type ScorePreview struct {
	NextAttempt    int    `json:"nextAttempt"`
	Points         int    `json:"points"`
	PointsWithHint *int   `json:"pointsWithHint,omitempty"` // only while the hint is unused and would cost points
	Label          string `json:"label"`
}

// Preview computes the ScorePreview after guessesMade guesses.
func Preview(guessesMade int, hintUsed bool) ScorePreview {
	next := guessesMade + 1
	p := ScorePreview{NextAttempt: next, Points: Score(next, hintUsed)}
	switch next {
	case 1:
		p.Label = "First try"
	case 2:
		p.Label = "Second try"
	case 3:
		p.Label = "Last chance"
	default:
		p.Label = "No points remaining"
	}
	if !hintUsed && next <= MaxGuesses {
		if with := Score(next, true); with != p.Points {
			p.PointsWithHint = &with
		}
	}
	return p
}
