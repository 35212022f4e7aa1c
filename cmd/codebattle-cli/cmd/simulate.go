package cmd

import (
	"fmt"
	"io"

	"github.com/nfrund/codebattle/cmd/codebattle-cli/internal/format"
	"github.com/nfrund/codebattle/cmd/codebattle-cli/internal/simulate"
	"github.com/spf13/cobra"
)

var (
	simSeed     uint64
	simMaxTurns int
	simQuiet    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play a headless game",
	Long: `Play a full game without a browser. The player always picks the attack with
the best expected damage, or a guaranteed finisher when one exists. Delays
run on a virtual clock, so a whole game finishes instantly, and the same
seed always plays the same game.

Examples:
  codebattle-cli simulate --seed 42
  codebattle-cli simulate --seed 7 --quiet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		log := out
		if simQuiet {
			log = io.Discard
		}

		res, err := simulate.Run(simSeed, simMaxTurns, log)
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Seed:     %d\n", res.Seed)
		fmt.Fprintf(out, "Outcome:  %s\n", format.Title(string(res.Outcome)))
		fmt.Fprintf(out, "Level:    %d\n", res.Level)
		fmt.Fprintf(out, "Turns:    %d\n", res.Turns)
		fmt.Fprintf(out, "State:    %s\n", format.Title(res.State.String()))
		fmt.Fprintf(out, "Duration: %s (virtual)\n", res.Elapsed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 1, "Random seed")
	simulateCmd.Flags().IntVar(&simMaxTurns, "max-turns", 500, "Stop after this many player attacks")
	simulateCmd.Flags().BoolVarP(&simQuiet, "quiet", "q", false, "Only print the summary")
}
