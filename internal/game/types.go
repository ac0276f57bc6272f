// internal/game/types.go
//
// Core type definitions for the color quiz engine.
// Defines:
//   - Mode: which side of the question is shown (swatch or hex code).
//   - CandidateSet: one correct color plus three distractors.
//   - Option / Question: the renderable record for a single round.
//   - GuessOutcome: the result of one guess within a Session.

package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/colorquiz/internal/color"
)

// Mode is the presentation mode of a question.
type Mode uint8

const (
	// ModeIdentifyColor shows a swatch; the player picks its hex code.
	ModeIdentifyColor Mode = iota
	// ModeIdentifySwatch shows a hex code; the player picks its swatch.
	ModeIdentifySwatch
)

// String returns the wire name of m.
func (m Mode) String() string {
	switch m {
	case ModeIdentifyColor:
		return "identify_color"
	case ModeIdentifySwatch:
		return "identify_swatch"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool { return m == ModeIdentifyColor || m == ModeIdentifySwatch }

// MarshalText encodes m as "identify_color" or "identify_swatch".
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("game: invalid mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts only the two wire names.
func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "identify_color":
		*m = ModeIdentifyColor
	case "identify_swatch":
		*m = ModeIdentifySwatch
	default:
		return fmt.Errorf("game: unknown mode %q", b)
	}
	return nil
}

// OptionCount is the number of options per question.
const OptionCount = 4

// CandidateSet is the color material for one question.
// All four colors are pairwise distinct and at least the generator's minimum
// distance apart, unless Exhausted is set.
type CandidateSet struct {
	Correct     color.Hex    `json:"correct"`
	Distractors [3]color.Hex `json:"distractors"`
	Attempts    int          `json:"attempts"`  // distractor draws used
	Exhausted   bool         `json:"exhausted"` // best-effort fallback; distance not guaranteed
}

// Colors returns the correct color followed by the distractors.
func (s CandidateSet) Colors() [OptionCount]color.Hex {
	return [OptionCount]color.Hex{s.Correct, s.Distractors[0], s.Distractors[1], s.Distractors[2]}
}

// Option is one answer choice.
type Option struct {
	Value     color.Hex `json:"value"`
	IsCorrect bool      `json:"isCorrect"`
	ID        string    `json:"id"`
}

// Question is an immutable round record produced by the Generator.
type Question struct {
	Mode          Mode                `json:"mode"`
	DisplayValue  color.Hex           `json:"displayValue"`
	Options       [OptionCount]Option `json:"options"`
	CorrectAnswer color.Hex           `json:"correctAnswer"`
}

// OptionID returns the positional id for slot i.
func OptionID(i int) string { return fmt.Sprintf("option_%d", i) }

// Option looks up an option by id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectIndex returns the slot of the correct option, or -1.
func (q Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// Values returns the option values in display order.
func (q Question) Values() [OptionCount]color.Hex {
	var out [OptionCount]color.Hex
	for i, o := range q.Options {
		out[i] = o.Value
	}
	return out
}

var errInvalidQuestion = errors.New("game: invalid question")

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if !q.Mode.Valid() {
		return fmt.Errorf("%w: mode %d", errInvalidQuestion, uint8(q.Mode))
	}
	if q.DisplayValue != q.CorrectAnswer {
		return fmt.Errorf("%w: display value %s != correct answer %s", errInvalidQuestion, q.DisplayValue, q.CorrectAnswer)
	}
	seen := make(map[color.Hex]bool, OptionCount)
	correct := 0
	for i, o := range q.Options {
		if _, err := color.ParseHex(string(o.Value)); err != nil {
			return fmt.Errorf("%w: option %d: %v", errInvalidQuestion, i, err)
		}
		if o.ID != OptionID(i) {
			return fmt.Errorf("%w: option %d has id %q", errInvalidQuestion, i, o.ID)
		}
		if seen[o.Value] {
			return fmt.Errorf("%w: duplicate option %s", errInvalidQuestion, o.Value)
		}
		seen[o.Value] = true
		if o.IsCorrect {
			correct++
			if o.Value != q.CorrectAnswer {
				return fmt.Errorf("%w: correct option %s != answer %s", errInvalidQuestion, o.Value, q.CorrectAnswer)
			}
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: %d correct options", errInvalidQuestion, correct)
	}
	return nil
}

// GuessOutcome is the result of one SubmitGuess call.
type GuessOutcome struct {
	Correct       bool      `json:"correct"`
	Attempt       int       `json:"attempt"` // 1-based, including this guess
	Points        int       `json:"points"`
	Resolved      bool      `json:"resolved"`
	Guessed       color.Hex `json:"guessed"`
	CorrectAnswer color.Hex `json:"correctAnswer,omitempty"` // set once resolved
	Score         int       `json:"score"`                   // session total after this guess
}
