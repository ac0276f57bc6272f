package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colorquiz/internal/game"
)

func newScoreCmd(a *app) *cobra.Command {
	var hintUsed bool
	cmd := &cobra.Command{
		Use:   "score <attempt>",
		Short: "Score a correct answer on the given attempt",
		Long: `Print the points for a correct answer on the given attempt: 8, 4 or 2
for attempts 1 to 3, nothing after that, halved when the hint was used.
Input that is not a number earns no points.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), game.ScoreAny(args[0], hintUsed))
			return err
		},
	}
	cmd.Flags().BoolVar(&hintUsed, "hint", false, "The hint was used")
	return cmd
}
