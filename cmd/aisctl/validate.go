package main

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the snapshot, build an index and print its statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		indexUC, _, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := indexUC.Stats(cmd.Context())
		if err != nil {
			return err
		}
		formatStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() { rootCmd.AddCommand(validateCmd) }
