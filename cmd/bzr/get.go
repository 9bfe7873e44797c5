package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <resource> <id>",
	Short: "Fetch one document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := marketClient.Get(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(record)
		}
		for k, v := range record {
			fmt.Printf("%s: %v\n", k, v)
		}
		return nil
	},
}
