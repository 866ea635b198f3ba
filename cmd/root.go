package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "barline",
	Short: "Measure/beat midi document editor",
	Long:  `Edits standard midi files in musical coordinates: measures, beats and pitch names instead of raw ticks.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
