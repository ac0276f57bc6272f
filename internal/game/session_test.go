package game

import (
	"errors"
	"testing"

	"github.com/robalobadob/colorquiz/internal/color"
)

// fixedQuestion has its correct answer in slot 2.
func fixedQuestion(mode Mode) Question {
	values := [OptionCount]color.Hex{"#FF0000", "#00FF00", "#123ABC", "#FFFFFF"}
	var q Question
	q.Mode = mode
	q.DisplayValue = "#123ABC"
	q.CorrectAnswer = "#123ABC"
	for i, v := range values {
		q.Options[i] = Option{Value: v, IsCorrect: i == 2, ID: OptionID(i)}
	}
	return q
}

func startedSession(t *testing.T, mode Mode) *Session {
	t.Helper()
	s := NewSession("s1")
	if err := s.StartNewQuestion(fixedQuestion(mode)); err != nil {
		t.Fatalf("StartNewQuestion() failed: %v", err)
	}
	return s
}

func TestSessionCorrectFirstTry(t *testing.T) {
	s := startedSession(t, ModeIdentifyColor)

	out, err := s.SubmitGuess("option_2")
	if err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	want := GuessOutcome{Correct: true, Attempt: 1, Points: 8, Resolved: true, Guessed: "#123ABC", CorrectAnswer: "#123ABC", Score: 8}
	if out != want {
		t.Errorf("outcome = %+v, want %+v", out, want)
	}
	if !s.Resolved() || s.Answered != 1 || s.Solved != 1 {
		t.Errorf("session after win = %+v", s)
	}
	if _, err := s.SubmitGuess("option_0"); !errors.Is(err, ErrRoundResolved) {
		t.Errorf("guess after resolve error = %v, want ErrRoundResolved", err)
	}
}

func TestSessionWrongThenRight(t *testing.T) {
	s := startedSession(t, ModeIdentifyColor)

	out, err := s.SubmitGuess("option_0")
	if err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	if out.Correct || out.Resolved || out.Attempt != 1 || out.Points != 0 || out.Guessed != "#FF0000" {
		t.Errorf("first outcome = %+v", out)
	}
	if out.CorrectAnswer != "" {
		t.Errorf("correct answer leaked before resolution: %s", out.CorrectAnswer)
	}
	if p := s.Preview(); p.NextAttempt != 2 || p.Points != 4 {
		t.Errorf("Preview() = %+v", p)
	}

	if _, err := s.SubmitGuess("option_0"); !errors.Is(err, ErrOptionEliminated) {
		t.Errorf("repeat guess error = %v, want ErrOptionEliminated", err)
	}
	if s.Attempts != 1 {
		t.Errorf("rejected guess consumed an attempt: %d", s.Attempts)
	}

	if _, err := s.UseHint(); err != nil {
		t.Fatalf("UseHint() failed: %v", err)
	}
	if s.Attempts != 1 {
		t.Errorf("hint consumed an attempt: %d", s.Attempts)
	}

	out, err = s.SubmitGuess("option_2")
	if err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	if !out.Correct || out.Attempt != 2 || out.Points != 2 || out.Score != 2 {
		t.Errorf("second outcome = %+v, want 2 points on attempt 2", out)
	}
}

func TestSessionThreeMisses(t *testing.T) {
	s := startedSession(t, ModeIdentifySwatch)

	for i, id := range []string{"option_0", "option_1", "option_3"} {
		out, err := s.SubmitGuess(id)
		if err != nil {
			t.Fatalf("guess %d failed: %v", i, err)
		}
		last := i == 2
		if out.Resolved != last || out.Points != 0 || out.Attempt != i+1 {
			t.Errorf("guess %d outcome = %+v", i, out)
		}
		if last && out.CorrectAnswer != "#123ABC" {
			t.Errorf("final outcome missing correct answer: %+v", out)
		}
	}
	if s.Score != 0 || s.Answered != 1 || s.Solved != 0 {
		t.Errorf("session after loss = %+v", s)
	}
	if _, err := s.UseHint(); !errors.Is(err, ErrRoundResolved) {
		t.Errorf("hint after resolve error = %v, want ErrRoundResolved", err)
	}
}

func TestSessionScoreAccumulates(t *testing.T) {
	s := NewSession("acc")
	plays := []struct {
		guesses []string
		hint    bool
		want    int
	}{
		{[]string{"option_2"}, false, 8},
		{[]string{"option_0", "option_2"}, true, 10},
		{[]string{"option_0", "option_1", "option_2"}, false, 12},
		{[]string{"option_0", "option_1", "option_3"}, true, 12},
	}
	for i, p := range plays {
		if err := s.StartNewQuestion(fixedQuestion(ModeIdentifyColor)); err != nil {
			t.Fatalf("StartNewQuestion() failed: %v", err)
		}
		if p.hint {
			if _, err := s.UseHint(); err != nil {
				t.Fatalf("UseHint() failed: %v", err)
			}
		}
		for _, id := range p.guesses {
			if _, err := s.SubmitGuess(id); err != nil {
				t.Fatalf("round %d guess %s failed: %v", i, id, err)
			}
		}
		if s.Score != p.want {
			t.Errorf("round %d score = %d, want %d", i, s.Score, p.want)
		}
	}
	if s.Round != 4 || s.Answered != 4 || s.Solved != 3 {
		t.Errorf("tallies = round %d answered %d solved %d", s.Round, s.Answered, s.Solved)
	}
}

func TestSessionHintOnce(t *testing.T) {
	s := startedSession(t, ModeIdentifyColor)
	b, err := s.UseHint()
	if err != nil {
		t.Fatalf("UseHint() failed: %v", err)
	}
	if len(b) != OptionCount {
		t.Fatalf("identify_color hint covers %d codes, want %d", len(b), OptionCount)
	}
	if b[2].Hex != "#123ABC" || b[2].Components[1].Digits != "3A" {
		t.Errorf("hint breakdown = %+v", b[2])
	}
	if _, err := s.UseHint(); !errors.Is(err, ErrHintUsed) {
		t.Errorf("second UseHint() error = %v, want ErrHintUsed", err)
	}
	if p := s.Preview(); p.Points != 4 || p.PointsWithHint != nil {
		t.Errorf("Preview() with hint = %+v", p)
	}
}

func TestSessionHintTargetsByMode(t *testing.T) {
	s := startedSession(t, ModeIdentifySwatch)
	b, err := s.UseHint()
	if err != nil {
		t.Fatalf("UseHint() failed: %v", err)
	}
	if len(b) != 1 || b[0].Hex != "#123ABC" {
		t.Errorf("identify_swatch hint = %+v, want the prompt only", b)
	}

	s = startedSession(t, ModeIdentifyColor)
	if _, err := s.SubmitGuess("option_3"); err != nil {
		t.Fatalf("SubmitGuess() failed: %v", err)
	}
	if codes := s.VisibleHexCodes(); len(codes) != 3 {
		t.Errorf("visible codes after one miss = %v, want 3", codes)
	}
}

func TestSessionErrors(t *testing.T) {
	s := NewSession("e")
	if _, err := s.SubmitGuess("option_0"); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("guess without question error = %v", err)
	}
	if _, err := s.UseHint(); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("hint without question error = %v", err)
	}
	if err := s.StartNewQuestion(Question{}); err == nil {
		t.Error("StartNewQuestion accepted an invalid question")
	}

	s = startedSession(t, ModeIdentifyColor)
	if _, err := s.SubmitGuess("option_7"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("unknown option error = %v", err)
	}
}

func TestStartNewQuestionSupersedes(t *testing.T) {
	s := startedSession(t, ModeIdentifyColor)
	if _, err := s.SubmitGuess("option_0"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UseHint(); err != nil {
		t.Fatal(err)
	}
	if err := s.StartNewQuestion(fixedQuestion(ModeIdentifySwatch)); err != nil {
		t.Fatal(err)
	}
	if s.Attempts != 0 || s.HintUsed || len(s.Eliminated) != 0 || s.State != StateAwaitingGuess {
		t.Errorf("round state not reset: %+v", s)
	}
	if s.Answered != 0 || s.Score != 0 {
		t.Errorf("abandoned question was counted: %+v", s)
	}
}

func TestSessionClone(t *testing.T) {
	s := startedSession(t, ModeIdentifyColor)
	if _, err := s.SubmitGuess("option_0"); err != nil {
		t.Fatal(err)
	}
	c := s.Clone()
	c.Eliminated[0] = "changed"
	c.Question.Options[0].Value = "#000000"
	if s.Eliminated[0] != "option_0" || s.Question.Options[0].Value != "#FF0000" {
		t.Error("Clone shares state with the original")
	}
}
