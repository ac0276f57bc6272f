// internal/game/engine.go
//
// Question engine for the color quiz.
// Responsibilities:
//   - Draw one correct color and three distractors that are pairwise at least
//     MinDistance apart (Manhattan distance over RGB).
//   - Bound the redraw loop at MaxAttempts and fall back to a best-effort,
//     still-distinct set flagged as Exhausted.
//   - Wrap a candidate set into a Question with a random mode and an unbiased
//     shuffle of the four options.
//
// Notes:
//   - A Generator owns one random stream; access is serialized so a single
//     Generator can be shared by concurrent HTTP handlers.
//   - Diagnostics (slow draws, exhaustion) go to the injected zerolog logger and
//     to Stats counters; they never change the result.
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colorquiz/internal/color"
)

const (
	// MinDistance is the minimum pairwise Manhattan distance between the four colors.
	MinDistance = 75
	// MaxAttempts caps distractor redraws per candidate set.
	MaxAttempts = 1000
	// WarnAttempts and ExcessiveAttempts are the diagnostic thresholds.
	WarnAttempts      = 10
	ExcessiveAttempts = 90
)

// Stats is a snapshot of a Generator's counters.
type Stats struct {
	Generated       int64 `json:"generated"`       // candidate sets produced
	Retries         int64 `json:"retries"`         // rejected distractor triples
	Exhausted       int64 `json:"exhausted"`       // sets returned via the fallback
	MaxAttemptsSeen int   `json:"maxAttemptsSeen"` // worst single generation
}

// Generator produces candidate sets and questions.
type Generator struct {
	mu          sync.Mutex // guards rng and stats
	rng         *rand.Rand
	minDistance int
	maxAttempts int
	log         zerolog.Logger
	stats       Stats
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithMinDistance overrides MinDistance. Must be at least 1.
func WithMinDistance(n int) GeneratorOption { return func(g *Generator) { g.minDistance = n } }

// WithMaxAttempts overrides MaxAttempts. Must be at least 1.
func WithMaxAttempts(n int) GeneratorOption { return func(g *Generator) { g.maxAttempts = n } }

// WithLogger sets the diagnostics logger (default: the global zerolog logger).
func WithLogger(l zerolog.Logger) GeneratorOption { return func(g *Generator) { g.log = l } }

// NewGenerator constructs a Generator drawing from rng.
// A nil rng is replaced by one seeded from the clock.
func NewGenerator(rng *rand.Rand, opts ...GeneratorOption) (*Generator, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Generator{
		rng:         rng,
		minDistance: MinDistance,
		maxAttempts: MaxAttempts,
		log:         log.Logger,
	}
	for _, o := range opts {
		o(g)
	}
	// A zero threshold would let duplicate colors through.
	if g.minDistance < 1 || g.minDistance > color.MaxDistance {
		return nil, fmt.Errorf("game: min distance %d outside [1, %d]", g.minDistance, color.MaxDistance)
	}
	if g.maxAttempts < 1 {
		return nil, fmt.Errorf("game: max attempts must be positive, got %d", g.maxAttempts)
	}
	return g, nil
}

// NewSeededGenerator is NewGenerator over rand.NewSource(seed).
func NewSeededGenerator(seed int64, opts ...GeneratorOption) (*Generator, error) {
	return NewGenerator(rand.New(rand.NewSource(seed)), opts...)
}

// CandidateSet draws a new candidate set.
func (g *Generator) CandidateSet() CandidateSet {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.candidateSet()
}

// BuildQuestion turns set into a Question with a random mode and shuffled options.
func (g *Generator) BuildQuestion(set CandidateSet) Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buildQuestion(set)
}

// Question draws a candidate set and builds a question from it.
func (g *Generator) Question() Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buildQuestion(g.candidateSet())
}

// Stats returns a snapshot of the counters.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// MinDistance reports the configured threshold.
func (g *Generator) MinDistance() int { return g.minDistance }

// candidateSet runs the bounded redraw loop. Caller holds g.mu.
func (g *Generator) candidateSet() CandidateSet {
	correct := g.randomRGB()

	var best [3]color.RGB
	bestMin := -1
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		// Every attempt redraws all three distractors.
		var d [3]color.RGB
		for i := range d {
			d[i] = g.randomRGB()
		}
		m := minPairwise(correct, d)
		if m >= g.minDistance {
			g.record(attempt, false)
			return newCandidateSet(correct, d, attempt, false)
		}
		if m > bestMin {
			best, bestMin = d, m
		}
	}

	best = ensureDistinct(correct, best)
	g.record(g.maxAttempts, true)
	return newCandidateSet(correct, best, g.maxAttempts, true)
}

// buildQuestion assembles and shuffles the options. Caller holds g.mu.
func (g *Generator) buildQuestion(set CandidateSet) Question {
	mode := ModeIdentifyColor
	if g.rng.Intn(2) == 1 {
		mode = ModeIdentifySwatch
	}

	var opts [OptionCount]Option
	for i, v := range set.Colors() {
		opts[i] = Option{Value: v, IsCorrect: i == 0}
	}
	g.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	// Ids are positional so they say nothing about the pre-shuffle order.
	for i := range opts {
		opts[i].ID = OptionID(i)
	}

	return Question{
		Mode:          mode,
		DisplayValue:  set.Correct,
		Options:       opts,
		CorrectAnswer: set.Correct,
	}
}

func (g *Generator) randomRGB() color.RGB {
	return color.RGB{R: g.rng.Intn(256), G: g.rng.Intn(256), B: g.rng.Intn(256)}
}

// record updates counters and emits diagnostics. Caller holds g.mu.
func (g *Generator) record(attempts int, exhausted bool) {
	g.stats.Generated++
	g.stats.Retries += int64(attempts - 1)
	if attempts > g.stats.MaxAttemptsSeen {
		g.stats.MaxAttemptsSeen = attempts
	}

	switch {
	case exhausted:
		g.stats.Exhausted++
		g.log.Error().Int("attempts", attempts).Int("minDistance", g.minDistance).
			Msg("distractor generation exhausted; using best available set")
	case attempts >= ExcessiveAttempts:
		g.log.Warn().Int("attempts", attempts).Int("minDistance", g.minDistance).
			Msg("excessive distractor regeneration; consider lowering the minimum distance")
	case attempts > WarnAttempts:
		g.log.Warn().Int("attempts", attempts).Msg("distractor regeneration")
	case attempts > 1:
		g.log.Debug().Int("attempts", attempts).Msg("generated distinct color set")
	}
}

func newCandidateSet(correct color.RGB, d [3]color.RGB, attempts int, exhausted bool) CandidateSet {
	return CandidateSet{
		Correct:     correct.Hex(),
		Distractors: [3]color.Hex{d[0].Hex(), d[1].Hex(), d[2].Hex()},
		Attempts:    attempts,
		Exhausted:   exhausted,
	}
}

// minPairwise returns the smallest of the six pairwise distances.
func minPairwise(correct color.RGB, d [3]color.RGB) int {
	all := [4]color.RGB{correct, d[0], d[1], d[2]}
	m := color.MaxDistance + 1
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if dist := color.MustDistance(all[i], all[j]); dist < m {
				m = dist
			}
		}
	}
	return m
}

// ensureDistinct steps any distractor that collides with an earlier color to
// the next 24-bit value until all four are distinct. Only used by the fallback.
func ensureDistinct(correct color.RGB, d [3]color.RGB) [3]color.RGB {
	all := [4]color.RGB{correct, d[0], d[1], d[2]}
	for i := 1; i < len(all); i++ {
		for collides(all[i], all[:i]) {
			all[i] = nextRGB(all[i])
		}
	}
	return [3]color.RGB{all[1], all[2], all[3]}
}

func collides(c color.RGB, others []color.RGB) bool {
	for _, o := range others {
		if o == c {
			return true
		}
	}
	return false
}

func nextRGB(c color.RGB) color.RGB {
	v := (c.R<<16 | c.G<<8 | c.B) + 1
	v &= 0xFFFFFF
	return color.RGB{R: v >> 16 & 0xFF, G: v >> 8 & 0xFF, B: v & 0xFF}
}

// ------------------------- package-level engine ----------------------------

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

func defaultGenerator() *Generator {
	defaultOnce.Do(func() {
		g, err := NewGenerator(nil)
		if err != nil {
			panic(fmt.Errorf("game: default generator: %w", err))
		}
		defaultGen = g
	})
	return defaultGen
}

// GenerateCandidateSet draws a candidate set from the process-wide generator.
func GenerateCandidateSet() CandidateSet { return defaultGenerator().CandidateSet() }

// BuildQuestion builds a question with the process-wide generator.
func BuildQuestion(set CandidateSet) Question { return defaultGenerator().BuildQuestion(set) }

// GenerateQuestion draws a fresh question from the process-wide generator.
func GenerateQuestion() Question { return defaultGenerator().Question() }
