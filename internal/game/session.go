// internal/game/session.go
//
// Per-player game session.
// Responsibilities:
//   - Hold the running score, the current question, the attempt count and the
//     hint flag for one player.
//   - Apply guesses through the per-question state machine:
//       awaiting_guess(1) → awaiting_guess(2) → awaiting_guess(3) → resolved.
//   - Reveal the hint at most once per question, without consuming an attempt.
//
// A Session is not safe for concurrent use; stores serialize access.
package game

import (
	"errors"
	"slices"
	"time"

	"github.com/robalobadob/colorquiz/internal/color"
	"github.com/robalobadob/colorquiz/internal/hint"
)

// RoundState is the state of the current question.
type RoundState string

const (
	StateIdle          RoundState = "idle" // no question started yet
	StateAwaitingGuess RoundState = "awaiting_guess"
	StateResolved      RoundState = "resolved"
)

var (
	ErrNoQuestion       = errors.New("no active question")
	ErrRoundResolved    = errors.New("question already resolved")
	ErrUnknownOption    = errors.New("unknown option")
	ErrOptionEliminated = errors.New("option already guessed")
	ErrHintUsed         = errors.New("hint already used")
)

// Session holds the state of a single player's game.
type Session struct {
	ID         string     `json:"id"`
	Score      int        `json:"score"`
	Question   *Question  `json:"question,omitempty"`
	State      RoundState `json:"state"`
	Attempts   int        `json:"attempts"` // guesses made on the current question
	HintUsed   bool       `json:"hintUsed"`
	Eliminated []string   `json:"eliminated"` // option ids guessed wrong on the current question
	Round      int        `json:"round"`      // questions started
	Answered   int        `json:"answered"`   // questions resolved
	Solved     int        `json:"solved"`     // questions resolved with a correct guess
	DailyDate  string     `json:"dailyDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewSession returns an idle session with a zero score.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		State:      StateIdle,
		Eliminated: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// StartNewQuestion makes q the active question. An unresolved previous
// question is abandoned without points.
func (s *Session) StartNewQuestion(q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	s.Question = &q
	s.State = StateAwaitingGuess
	s.Attempts = 0
	s.HintUsed = false
	s.Eliminated = []string{}
	s.Round++
	s.touch()
	return nil
}

// SubmitGuess applies a guess for the option with the given id.
func (s *Session) SubmitGuess(optionID string) (GuessOutcome, error) {
	if s.Question == nil {
		return GuessOutcome{}, ErrNoQuestion
	}
	if s.State == StateResolved {
		return GuessOutcome{}, ErrRoundResolved
	}
	opt, ok := s.Question.Option(optionID)
	if !ok {
		return GuessOutcome{}, ErrUnknownOption
	}
	if slices.Contains(s.Eliminated, optionID) {
		return GuessOutcome{}, ErrOptionEliminated
	}

	s.Attempts++
	out := GuessOutcome{Correct: opt.IsCorrect, Attempt: s.Attempts, Guessed: opt.Value}

	switch {
	case opt.IsCorrect:
		out.Points = Score(s.Attempts, s.HintUsed)
		s.Score += out.Points
		s.Solved++
		s.resolve()
	case s.Attempts >= MaxGuesses:
		s.resolve()
	default:
		s.Eliminated = append(s.Eliminated, optionID)
	}

	if s.State == StateResolved {
		out.Resolved = true
		out.CorrectAnswer = s.Question.CorrectAnswer
	}
	out.Score = s.Score
	s.touch()
	return out, nil
}

// UseHint marks the hint as used and returns breakdowns for every hex code
// the current mode shows on screen.
func (s *Session) UseHint() ([]hint.Breakdown, error) {
	if s.Question == nil {
		return nil, ErrNoQuestion
	}
	if s.State == StateResolved {
		return nil, ErrRoundResolved
	}
	if s.HintUsed {
		return nil, ErrHintUsed
	}
	b, err := hint.DecomposeAll(s.VisibleHexCodes()...)
	if err != nil {
		return nil, err
	}
	s.HintUsed = true
	s.touch()
	return b, nil
}

// VisibleHexCodes returns the hex codes the current question displays as text:
// the remaining options for identify_color, the prompt for identify_swatch.
func (s *Session) VisibleHexCodes() []color.Hex {
	if s.Question == nil {
		return nil
	}
	if s.Question.Mode == ModeIdentifySwatch {
		return []color.Hex{s.Question.DisplayValue}
	}
	out := make([]color.Hex, 0, OptionCount)
	for _, o := range s.Question.Options {
		if !slices.Contains(s.Eliminated, o.ID) {
			out = append(out, o.Value)
		}
	}
	return out
}

// Preview reports what the next correct guess on the current question is worth.
func (s *Session) Preview() ScorePreview {
	return Preview(s.Attempts, s.HintUsed)
}

// Resolved reports whether the current question is finished.
func (s *Session) Resolved() bool { return s.State == StateResolved }

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	if s.Question != nil {
		q := *s.Question
		c.Question = &q
	}
	c.Eliminated = slices.Clone(s.Eliminated)
	if c.Eliminated == nil {
		c.Eliminated = []string{}
	}
	return &c
}

func (s *Session) resolve() {
	s.State = StateResolved
	s.Answered++
}

func (s *Session) touch() { s.UpdatedAt = time.Now().UTC() }
