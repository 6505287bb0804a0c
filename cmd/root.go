package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chordplay",
	Short: "Chord practice game engine",
	Long:  `Runs the rhythm and judgment engine behind the chord game, either against a live MIDI keyboard or as an HTTP session server.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
