package cmd

import (
	"fmt"

	"github.com/jazzify/chordplay/stage"
	"github.com/jazzify/chordplay/util"
	"github.com/spf13/cobra"
)

var stagesFromDB bool

func init() {
	stagesCmd.Flags().BoolVar(&stagesFromDB, "db", false, "fetch the listed stages from DynamoDB instead")
	rootCmd.AddCommand(stagesCmd)
}

var stagesCmd = &cobra.Command{
	Use:   "stages [number...]",
	Short: "Lists stages",
	Long:  `Lists stages`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stagesFromDB {
			return listFromDB(args)
		}
		listLocal()
		return nil
	},
}

func printStage(s stage.Stage) {
	fmt.Printf("%-6s %-24s %s\n", s.Number, s.Name, s.Description)
	if len(s.AllowedChords) > 0 {
		fmt.Printf("       chords: %v\n", s.AllowedChords)
	}
	if len(s.Progression) > 0 {
		fmt.Printf("       progression: %v\n", s.Progression)
	}
}

func listLocal() {
	for _, s := range loadCatalog() {
		printStage(s)
	}
}

func listFromDB(numbers []string) error {
	stages, err := stage.GetStages(numbers)
	if err != nil {
		return err
	}
	for _, number := range util.GetKeys(stages) {
		printStage(stages[number])
	}
	return nil
}
