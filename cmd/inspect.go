package cmd

import (
	"fmt"

	"github.com/barline/barline/measure"
	"github.com/barline/barline/midi"
	"github.com/barline/barline/model"
	"github.com/barline/barline/pitch"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspects a midi file in musical coordinates",
	Long:  `Inspects a midi file in musical coordinates`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func inspect(path string) {
	doc, err := midi.ReadMidiFile(path)
	if err != nil {
		panic("Could not read midi file: " + err.Error())
	}

	total, err := measure.TotalMeasures(doc)
	if err != nil {
		panic("Could not walk measures: " + err.Error())
	}

	fmt.Printf("name: %v\n", doc.Name)
	fmt.Printf("ppq: %v\n", doc.PPQ)
	fmt.Printf("measures: %v\n", total)
	for _, ev := range doc.Map.Tempos {
		fmt.Printf("tempo @ %v: %v bpm\n", ev.Tick, ev.BPM)
	}
	for _, ev := range doc.Map.TimeSigs {
		fmt.Printf("time signature @ %v: %v/%v\n", ev.Tick, ev.Numerator, ev.Denominator)
	}
	for i, track := range doc.Tracks {
		fmt.Printf("track %v: %q program=%q notes=%v\n", i, track.Name, track.ProgramName, len(track.Notes))
		for _, n := range track.Notes {
			m, beat, err := measure.TickToMeasureBeat(doc, n.StartTick)
			if err != nil {
				panic("Could not convert tick: " + err.Error())
			}
			fmt.Printf("  m%v b%.2f %v\n", m, beat, pitch.FormatWithVelocity(n.Pitch, model.VelocityToByte(n.Velocity)))
		}
	}
}
