package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "harmonia",
	Short: "Four-part harmony generator",
	Long: `Generates four-part harmony exercises from a key, a meter and a
roman-numeral progression, and writes them out as MusicXML or MIDI.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
