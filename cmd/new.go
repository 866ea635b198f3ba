package cmd

import (
	"fmt"

	"github.com/barline/barline/engine"
	"github.com/barline/barline/model"
	"github.com/barline/barline/registry"
	"github.com/spf13/cobra"
)

var newName string
var newPPQ int
var newBPM float64
var newNumerator int
var newDenominator int

func init() {
	newCmd.Flags().StringVar(&newName, "name", "", "document name")
	newCmd.Flags().IntVar(&newPPQ, "ppq", 0, "pulses per quarter note")
	newCmd.Flags().Float64Var(&newBPM, "bpm", 0, "initial tempo")
	newCmd.Flags().IntVar(&newNumerator, "numerator", 0, "time signature numerator")
	newCmd.Flags().IntVar(&newDenominator, "denominator", 0, "time signature denominator")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Creates an empty midi file",
	Long:  `Creates an empty midi file seeded with a tempo and a time signature at tick 0`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		newFile(args[0])
	},
}

func newFile(path string) {
	eng := engine.New(registry.New())
	alias, err := eng.Create(model.CreateOptions{
		Name:        newName,
		PPQ:         newPPQ,
		BPM:         newBPM,
		Numerator:   newNumerator,
		Denominator: newDenominator,
	})
	if err != nil {
		panic("Could not create document: " + err.Error())
	}
	saved, err := eng.Save(alias, path)
	if err != nil {
		panic("Could not save document: " + err.Error())
	}
	fmt.Printf("wrote %v\n", saved)
}
