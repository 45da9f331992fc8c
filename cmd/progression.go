package cmd

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColbyCabrera/harmonia/chord"
	"github.com/ColbyCabrera/harmonia/engine"
	"github.com/ColbyCabrera/harmonia/theory"
)

var progressionFlags struct {
	key      string
	measures int
	seed     int64
}

func init() {
	rootCmd.AddCommand(progressionCmd)
	f := progressionCmd.Flags()
	f.StringVarP(&progressionFlags.key, "key", "k", "C", "key, e.g. C, F#, Bbm")
	f.IntVarP(&progressionFlags.measures, "measures", "n", 8, "number of chords to draft")
	f.Int64Var(&progressionFlags.seed, "seed", 0, "random seed (default: time-based)")
}

var progressionCmd = &cobra.Command{
	Use:   "progression [token...]",
	Short: "Drafts or inspects a chord progression",
	Long: `Without arguments, drafts a cadence-closed progression in the given
key and prints each chord with its resolved pitches. With roman-numeral
arguments, inspects those chords instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProgression(cmd, args)
	},
}

func runProgression(cmd *cobra.Command, args []string) error {
	key, err := theory.ParseKey(progressionFlags.key)
	if err != nil {
		return err
	}

	tokens := args
	if len(tokens) == 0 {
		seed := progressionFlags.seed
		if !cmd.Flags().Changed("seed") {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		tokens = engine.DraftProgression(key, progressionFlags.measures, rng)
	}

	fmt.Println(titleStyle.Render(key.String()))
	for _, token := range tokens {
		res, err := chord.Resolve(token, key)
		if err != nil {
			fmt.Printf("%-6s %s\n", token, warnStyle.Render(err.Error()))
			continue
		}
		names := strings.Join(res.Names, " ")
		if res.RequiredBassPc != nil {
			names += dimStyle.Render(fmt.Sprintf("  (bass %s)", theory.PcName(*res.RequiredBassPc, key)))
		}
		fmt.Printf("%-6s %s\n", token, names)
	}
	return nil
}
