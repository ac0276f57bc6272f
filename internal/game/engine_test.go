package game

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/colorquiz/internal/color"
)

func newTestGenerator(t *testing.T, seed int64, opts ...GeneratorOption) *Generator {
	t.Helper()
	opts = append([]GeneratorOption{WithLogger(zerolog.Nop())}, opts...)
	g, err := NewSeededGenerator(seed, opts...)
	if err != nil {
		t.Fatalf("NewSeededGenerator() failed: %v", err)
	}
	return g
}

// checkCandidateSet verifies distinctness and, unless exhausted, the distance threshold.
func checkCandidateSet(t *testing.T, set CandidateSet, minDistance int) {
	t.Helper()
	colors := set.Colors()
	for i := 0; i < len(colors); i++ {
		for j := i + 1; j < len(colors); j++ {
			if colors[i] == colors[j] {
				t.Fatalf("duplicate colors %s in %+v", colors[i], set)
			}
			d, err := color.HexDistance(string(colors[i]), string(colors[j]))
			if err != nil {
				t.Fatalf("HexDistance: %v", err)
			}
			if !set.Exhausted && d < minDistance {
				t.Fatalf("distance(%s, %s) = %d < %d in %+v", colors[i], colors[j], d, minDistance, set)
			}
		}
	}
}

func TestCandidateSetInvariant(t *testing.T) {
	g := newTestGenerator(t, 1)
	for i := 0; i < 2000; i++ {
		set := g.CandidateSet()
		if set.Exhausted {
			t.Fatalf("set %d unexpectedly exhausted: %+v", i, set)
		}
		if set.Attempts < 1 || set.Attempts > MaxAttempts {
			t.Fatalf("set %d attempts = %d", i, set.Attempts)
		}
		checkCandidateSet(t, set, MinDistance)
		for _, h := range set.Colors() {
			if n, err := color.NormalizeHex(string(h)); err != nil || n != h {
				t.Fatalf("color %q is not canonical (normalized %q, err %v)", h, n, err)
			}
		}
	}

	st := g.Stats()
	if st.Generated != 2000 {
		t.Errorf("Stats.Generated = %d, want 2000", st.Generated)
	}
	if st.Exhausted != 0 {
		t.Errorf("Stats.Exhausted = %d, want 0", st.Exhausted)
	}
}

func TestQuestionInvariants(t *testing.T) {
	g := newTestGenerator(t, 2)
	const trials = 1000

	swatch := 0
	var positions [OptionCount]int
	for i := 0; i < trials; i++ {
		set := g.CandidateSet()
		q := g.BuildQuestion(set)
		if err := q.Validate(); err != nil {
			t.Fatalf("question %d invalid: %v", i, err)
		}
		if q.DisplayValue != set.Correct || q.CorrectAnswer != set.Correct {
			t.Fatalf("question %d display/answer = %s/%s, want %s", i, q.DisplayValue, q.CorrectAnswer, set.Correct)
		}

		want := map[color.Hex]bool{}
		for _, h := range set.Colors() {
			want[h] = true
		}
		for _, v := range q.Values() {
			if !want[v] {
				t.Fatalf("question %d option %s not in candidate set %+v", i, v, set)
			}
			delete(want, v)
		}
		if len(want) != 0 {
			t.Fatalf("question %d missing candidate colors %v", i, want)
		}

		idx := q.CorrectIndex()
		if q.Options[idx].Value != q.CorrectAnswer {
			t.Fatalf("question %d correct option value %s != %s", i, q.Options[idx].Value, q.CorrectAnswer)
		}
		positions[idx]++
		if q.Mode == ModeIdentifySwatch {
			swatch++
		}
	}

	if swatch < trials*30/100 || swatch > trials*70/100 {
		t.Errorf("identify_swatch share = %d/%d, want within 30–70%%", swatch, trials)
	}
	// Expected 250 per slot; the bounds are many standard deviations wide.
	for slot, n := range positions {
		if n < 150 || n > 350 {
			t.Errorf("correct answer in slot %d %d times out of %d", slot, n, trials)
		}
	}
}

func TestOptionIDsArePositional(t *testing.T) {
	g := newTestGenerator(t, 3)
	for i := 0; i < 100; i++ {
		q := g.Question()
		for slot, o := range q.Options {
			if o.ID != OptionID(slot) {
				t.Fatalf("slot %d has id %q", slot, o.ID)
			}
			got, ok := q.Option(o.ID)
			if !ok || got != o {
				t.Fatalf("Option(%q) = %+v, %v", o.ID, got, ok)
			}
		}
	}
	if _, ok := (Question{}).Option("option_9"); ok {
		t.Error("Option(option_9) found on empty question")
	}
}

func TestGenerateQuestionTerminates(t *testing.T) {
	start := time.Now()
	for i := 0; i < 1000; i++ {
		q := GenerateQuestion()
		if err := q.Validate(); err != nil {
			t.Fatalf("question %d invalid: %v", i, err)
		}
		set := CandidateSet{Correct: q.CorrectAnswer}
		k := 0
		for _, o := range q.Options {
			if !o.IsCorrect {
				set.Distractors[k] = o.Value
				k++
			}
		}
		checkCandidateSet(t, set, MinDistance)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("1000 questions took %v", elapsed)
	}
}

func TestPackageLevelBuildQuestion(t *testing.T) {
	set := GenerateCandidateSet()
	q := BuildQuestion(set)
	if err := q.Validate(); err != nil {
		t.Fatalf("BuildQuestion: %v", err)
	}
	if q.CorrectAnswer != set.Correct {
		t.Errorf("CorrectAnswer = %s, want %s", q.CorrectAnswer, set.Correct)
	}
}

// zeroSource makes every Intn(256) draw return 0.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestExhaustionFallbackStaysDistinct(t *testing.T) {
	g, err := NewGenerator(rand.New(zeroSource{}), WithMaxAttempts(50), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewGenerator() failed: %v", err)
	}

	set := g.CandidateSet()
	if !set.Exhausted {
		t.Fatalf("expected exhausted set, got %+v", set)
	}
	if set.Attempts != 50 {
		t.Errorf("Attempts = %d, want 50", set.Attempts)
	}
	want := CandidateSet{
		Correct:     "#000000",
		Distractors: [3]color.Hex{"#000001", "#000002", "#000003"},
		Attempts:    50,
		Exhausted:   true,
	}
	if set != want {
		t.Errorf("fallback set = %+v, want %+v", set, want)
	}
	checkCandidateSet(t, set, MinDistance)

	st := g.Stats()
	if st.Exhausted != 1 || st.Generated != 1 || st.Retries != 49 || st.MaxAttemptsSeen != 50 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestUnsatisfiableThresholdFallsBack(t *testing.T) {
	// No four points of the RGB cube are pairwise 700 apart.
	g := newTestGenerator(t, 4, WithMinDistance(700), WithMaxAttempts(200))
	for i := 0; i < 20; i++ {
		set := g.CandidateSet()
		if !set.Exhausted {
			t.Fatalf("set %d not exhausted: %+v", i, set)
		}
		checkCandidateSet(t, set, 700)
		if q := g.BuildQuestion(set); q.Validate() != nil {
			t.Fatalf("fallback question invalid: %v", q.Validate())
		}
	}
}

func TestNewGeneratorValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []GeneratorOption
	}{
		{"zero distance", []GeneratorOption{WithMinDistance(0)}},
		{"negative distance", []GeneratorOption{WithMinDistance(-5)}},
		{"distance above max", []GeneratorOption{WithMinDistance(color.MaxDistance + 1)}},
		{"zero attempts", []GeneratorOption{WithMaxAttempts(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGenerator(nil, tt.opts...); err == nil {
				t.Error("NewGenerator() succeeded, want error")
			}
		})
	}

	g, err := NewGenerator(nil)
	if err != nil {
		t.Fatalf("NewGenerator(nil) failed: %v", err)
	}
	if g.MinDistance() != MinDistance {
		t.Errorf("MinDistance() = %d, want %d", g.MinDistance(), MinDistance)
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGenerator(t, 12345)
	g2 := newTestGenerator(t, 12345)
	for i := 0; i < 50; i++ {
		q1, q2 := g1.Question(), g2.Question()
		if q1 != q2 {
			t.Fatalf("question %d differs:\n%+v\n%+v", i, q1, q2)
		}
	}
}

func TestModeText(t *testing.T) {
	b, err := json.Marshal(struct {
		M Mode `json:"m"`
	}{ModeIdentifySwatch})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"m":"identify_swatch"}` {
		t.Errorf("Marshal = %s", b)
	}

	var m Mode
	if err := m.UnmarshalText([]byte("identify_color")); err != nil || m != ModeIdentifyColor {
		t.Errorf("UnmarshalText(identify_color) = %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("identify_sound")); err == nil {
		t.Error("UnmarshalText accepted an unknown mode")
	}
	if _, err := Mode(7).MarshalText(); err == nil {
		t.Error("MarshalText accepted an unknown mode")
	}
}

func TestValidateRejectsBrokenQuestions(t *testing.T) {
	good := newTestGenerator(t, 6).Question()

	noCorrect := good
	noCorrect.Options[noCorrect.CorrectIndex()].IsCorrect = false

	twoCorrect := good
	for i := range twoCorrect.Options {
		twoCorrect.Options[i].IsCorrect = true
	}

	mismatch := good
	mismatch.DisplayValue = "#ABCDEF"

	dup := good
	dup.Options[1].Value = dup.Options[0].Value

	badID := good
	badID.Options[3].ID = "x"

	for name, q := range map[string]Question{
		"no correct": noCorrect, "two correct": twoCorrect, "display mismatch": mismatch,
		"duplicate": dup, "bad id": badID,
	} {
		if err := q.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil", name)
		}
	}
}
