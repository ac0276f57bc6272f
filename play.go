package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colorquiz/internal/daily"
	"github.com/robalobadob/colorquiz/internal/game"
	"github.com/robalobadob/colorquiz/internal/term"
)

const playHelp = "Commands: 1-4 guess, h hint, s skip, q quit"

func newPlayCmd(a *app) *cobra.Command {
	var (
		rounds   int
		dailyRun bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play the quiz in the terminal. Each question allows three guesses;
a correct answer is worth 8, 4 or 2 points and using the hint halves it.

` + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := a.questionSource(dailyRun)
			if err != nil {
				return err
			}
			p := newPlayer(cmd.InOrStdin(), cmd.OutOrStdout(), next)
			return p.run(rounds)
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "r", 0, "Number of questions (0 = until you quit)")
	cmd.Flags().BoolVar(&dailyRun, "daily", false, "Play today's shared question sequence")
	return cmd
}

// questionSource returns the function that draws question number round
// (0-based) for a terminal game.
func (a *app) questionSource(dailyRun bool) (func(round int) (game.Question, error), error) {
	if dailyRun {
		date := daily.DateKey(time.Now())
		opts := a.generatorOptions()
		return func(round int) (game.Question, error) {
			g, err := game.NewSeededGenerator(daily.QuestionSeed(date, a.cfg.Daily.Salt, round), opts...)
			if err != nil {
				return game.Question{}, err
			}
			return g.Question(), nil
		}, nil
	}
	gen, err := a.newGenerator()
	if err != nil {
		return nil, err
	}
	return func(int) (game.Question, error) { return gen.Question(), nil }, nil
}

// player runs a line-oriented game over one session.
type player struct {
	in   *bufio.Scanner
	out  io.Writer
	r    *term.Renderer
	next func(round int) (game.Question, error)
	sess *game.Session
}

func newPlayer(in io.Reader, out io.Writer, next func(int) (game.Question, error)) *player {
	return &player{
		in:   bufio.NewScanner(in),
		out:  out,
		r:    term.New(),
		next: next,
		sess: game.NewSession("terminal"),
	}
}

// run plays until rounds questions are done (0 = unlimited), the player
// quits or input ends.
func (p *player) run(rounds int) error {
	fmt.Fprintln(p.out, playHelp)
	for rounds == 0 || p.sess.Round < rounds {
		q, err := p.next(p.sess.Round)
		if err != nil {
			return err
		}
		if err := p.sess.StartNewQuestion(q); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "\nQuestion %d\n", p.sess.Round)
		if !p.playRound() {
			break
		}
	}
	fmt.Fprintln(p.out, p.r.Summary(p.sess))
	return nil
}

// playRound handles input until the question resolves. It returns false when
// the player wants to stop.
func (p *player) playRound() bool {
	for !p.sess.Resolved() {
		fmt.Fprint(p.out, p.r.Question(*p.sess.Question, p.sess.Eliminated))
		fmt.Fprintln(p.out, p.r.Preview(p.sess.Preview()))
		fmt.Fprint(p.out, "> ")
		if !p.in.Scan() {
			return false
		}

		input := strings.ToLower(strings.TrimSpace(p.in.Text()))
		switch input {
		case "q", "quit", "exit":
			return false
		case "s", "skip":
			return true
		case "h", "hint":
			hints, err := p.sess.UseHint()
			if err != nil {
				fmt.Fprintln(p.out, err)
				continue
			}
			fmt.Fprint(p.out, p.r.Hints(hints))
			continue
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > game.OptionCount {
			fmt.Fprintln(p.out, playHelp)
			continue
		}
		out, err := p.sess.SubmitGuess(game.OptionID(n - 1))
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		fmt.Fprintln(p.out, p.r.Outcome(out))
	}
	return true
}
