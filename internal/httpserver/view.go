package httpserver

import (
	"github.com/robalobadob/colorquiz/internal/color"
	"github.com/robalobadob/colorquiz/internal/game"
)

// optionView is an option as sent to clients. IsCorrect is only set once the
// round is resolved.
type optionView struct {
	ID         string    `json:"id"`
	Value      color.Hex `json:"value"`
	Eliminated bool      `json:"eliminated,omitempty"`
	IsCorrect  *bool     `json:"isCorrect,omitempty"`
}

type questionView struct {
	Mode          game.Mode    `json:"mode"`
	DisplayValue  color.Hex    `json:"displayValue"`
	Options       []optionView `json:"options"`
	CorrectAnswer color.Hex    `json:"correctAnswer,omitempty"`
}

type sessionView struct {
	ID        string             `json:"id"`
	Score     int                `json:"score"`
	State     game.RoundState    `json:"state"`
	Attempts  int                `json:"attempts"`
	HintUsed  bool               `json:"hintUsed"`
	Round     int                `json:"round"`
	Answered  int                `json:"answered"`
	Solved    int                `json:"solved"`
	DailyDate string             `json:"dailyDate,omitempty"`
	Question  *questionView      `json:"question,omitempty"`
	Preview   *game.ScorePreview `json:"preview,omitempty"` // only while awaiting a guess
}

func newSessionView(s *game.Session) sessionView {
	v := sessionView{
		ID:        s.ID,
		Score:     s.Score,
		State:     s.State,
		Attempts:  s.Attempts,
		HintUsed:  s.HintUsed,
		Round:     s.Round,
		Answered:  s.Answered,
		Solved:    s.Solved,
		DailyDate: s.DailyDate,
	}
	if s.Question == nil {
		return v
	}

	resolved := s.Resolved()
	q := &questionView{Mode: s.Question.Mode, DisplayValue: s.Question.DisplayValue}
	for _, o := range s.Question.Options {
		ov := optionView{ID: o.ID, Value: o.Value}
		for _, id := range s.Eliminated {
			if id == o.ID {
				ov.Eliminated = true
			}
		}
		if resolved {
			correct := o.IsCorrect
			ov.IsCorrect = &correct
		}
		q.Options = append(q.Options, ov)
	}
	if resolved {
		q.CorrectAnswer = s.Question.CorrectAnswer
	} else {
		p := s.Preview()
		v.Preview = &p
	}
	v.Question = q
	return v
}
