package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/colorquiz/internal/game"
)

// sampleOption and sampleQuestion are the printable form of a question,
// including how the colors were drawn.
type sampleOption struct {
	ID        string `json:"id" yaml:"id"`
	Value     string `json:"value" yaml:"value"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
}

type sampleQuestion struct {
	Mode          string         `json:"mode" yaml:"mode"`
	DisplayValue  string         `json:"displayValue" yaml:"displayValue"`
	CorrectAnswer string         `json:"correctAnswer" yaml:"correctAnswer"`
	Options       []sampleOption `json:"options" yaml:"options"`
	Attempts      int            `json:"attempts" yaml:"attempts"`
	Exhausted     bool           `json:"exhausted,omitempty" yaml:"exhausted,omitempty"`
}

func newSampleCmd(a *app) *cobra.Command {
	var (
		count  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print generated questions",
		Long: `Print generated questions, including the correct answer, as JSON or YAML.
Combine with --seed for a reproducible set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			gen, err := a.newGenerator()
			if err != nil {
				return err
			}
			out := make([]sampleQuestion, 0, count)
			for i := 0; i < count; i++ {
				set := gen.CandidateSet()
				out = append(out, newSampleQuestion(gen.BuildQuestion(set), set))
			}
			return writeSample(cmd.OutOrStdout(), format, out)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of questions")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}

func newSampleQuestion(q game.Question, set game.CandidateSet) sampleQuestion {
	s := sampleQuestion{
		Mode:          q.Mode.String(),
		DisplayValue:  string(q.DisplayValue),
		CorrectAnswer: string(q.CorrectAnswer),
		Attempts:      set.Attempts,
		Exhausted:     set.Exhausted,
	}
	for _, o := range q.Options {
		s.Options = append(s.Options, sampleOption{ID: o.ID, Value: string(o.Value), IsCorrect: o.IsCorrect})
	}
	return s
}

func writeSample(w io.Writer, format string, qs []sampleQuestion) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(qs)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(qs); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
