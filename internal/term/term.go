// Package term renders quiz questions, hints and feedback for a terminal.
// Swatches are drawn as background-colored blocks; labels on top of them pick
// black or white text from the swatch's perceived lightness.
package term

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/robalobadob/colorquiz/internal/color"
	"github.com/robalobadob/colorquiz/internal/game"
	"github.com/robalobadob/colorquiz/internal/hint"
)

// Layout constants
const (
	swatchWidth      = 14  // Width of an option swatch
	promptWidth      = 30  // Width of the identify_color prompt swatch
	lightnessCutover = 0.6 // CIE L* (0..1) above which labels turn black
)

// Renderer holds the styles used for terminal output.
type Renderer struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	score   lipgloss.Style
	boxed   lipgloss.Style
	channel map[hint.Channel]lipgloss.Style
}

// New returns a Renderer with the default styles.
func New() *Renderer {
	return &Renderer{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#777777")).Strikethrough(true),
		good:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E")),
		bad:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		score: lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")),
		boxed: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		channel: map[hint.Channel]lipgloss.Style{
			hint.ChannelRed:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4D")),
			hint.ChannelGreen: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4DFF4D")),
			hint.ChannelBlue:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D7DFF")),
		},
	}
}

// LabelColor returns black or white, whichever reads better on bg.
// Unparseable input gets white.
func LabelColor(bg color.Hex) color.Hex {
	c, err := colorful.Hex(string(bg))
	if err != nil {
		return "#FFFFFF"
	}
	l, _, _ := c.Lab()
	if l > lightnessCutover {
		return "#000000"
	}
	return "#FFFFFF"
}

// Swatch draws a block of bg with label centered on it.
func (r *Renderer) Swatch(bg color.Hex, label string, width int) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(string(bg))).
		Foreground(lipgloss.Color(string(LabelColor(bg)))).
		Width(width).
		Align(lipgloss.Center).
		Render(label)
}

// Question renders the prompt and the numbered options. Options listed in
// eliminated are struck through.
func (r *Renderer) Question(q game.Question, eliminated []string) string {
	var b strings.Builder
	switch q.Mode {
	case game.ModeIdentifyColor:
		b.WriteString(r.title.Render("Which hex code is this color?"))
		b.WriteString("\n\n")
		b.WriteString(r.Swatch(q.DisplayValue, "", promptWidth))
		b.WriteString("\n")
		b.WriteString(r.Swatch(q.DisplayValue, "", promptWidth))
		b.WriteString("\n\n")
		for i, o := range q.Options {
			line := fmt.Sprintf("%d) %s", i+1, o.Value)
			if slices.Contains(eliminated, o.ID) {
				line = r.muted.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	default:
		b.WriteString(r.title.Render("Which swatch is " + string(q.DisplayValue) + "?"))
		b.WriteString("\n\n")
		cells := make([]string, 0, len(q.Options))
		for i, o := range q.Options {
			label := fmt.Sprintf("%d", i+1)
			if slices.Contains(eliminated, o.ID) {
				cells = append(cells, r.muted.Width(swatchWidth).Align(lipgloss.Center).Render(label+" ✗"))
				continue
			}
			cells = append(cells, r.Swatch(o.Value, label, swatchWidth))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(cells[:2], " "), " ", strings.Join(cells[2:], " ")))
		b.WriteString("\n")
	}
	return b.String()
}

// Hints renders one line per breakdown with each channel pair colored.
func (r *Renderer) Hints(bs []hint.Breakdown) string {
	var b strings.Builder
	for _, h := range bs {
		b.WriteString("#")
		for _, c := range h.Components {
			b.WriteString(r.channel[c.Channel].Render(c.Digits))
		}
		fmt.Fprintf(&b, "  R=%d G=%d B=%d\n", h.Components[0].Value, h.Components[1].Value, h.Components[2].Value)
	}
	return b.String()
}

// Outcome renders the feedback for a guess.
func (r *Renderer) Outcome(out game.GuessOutcome) string {
	var msg string
	switch {
	case out.Correct:
		msg = r.good.Render(fmt.Sprintf("Correct! +%d points", out.Points))
	case out.Resolved:
		msg = r.bad.Render("Out of guesses. The answer was " + string(out.CorrectAnswer))
	default:
		msg = r.bad.Render(fmt.Sprintf("%s is not it. Try again.", out.Guessed))
	}
	return msg + "  " + r.score.Render(fmt.Sprintf("Score: %d", out.Score))
}

// Preview renders what the next correct guess is worth.
func (r *Renderer) Preview(p game.ScorePreview) string {
	s := fmt.Sprintf("%s: %d points", p.Label, p.Points)
	if p.PointsWithHint != nil {
		s += fmt.Sprintf(" (%d with hint)", *p.PointsWithHint)
	}
	return r.score.Render(s)
}

// Summary renders the end-of-game box.
func (r *Renderer) Summary(s *game.Session) string {
	body := fmt.Sprintf("Final score: %d\nQuestions: %d answered, %d solved", s.Score, s.Answered, s.Solved)
	return r.boxed.Render(body)
}
