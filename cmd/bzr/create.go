package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var createData string

var createCmd = &cobra.Command{
	Use:   "create <resource>",
	Short: "Create a document from a JSON body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body map[string]any
		if err := json.Unmarshal([]byte(createData), &body); err != nil {
			return fmt.Errorf("invalid --data JSON: %w", err)
		}

		record, err := marketClient.Create(cmd.Context(), args[0], body)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(record)
		}
		fmt.Printf("created %v\n", record["id"])
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createData, "data", "d", "{}", "document body as JSON")
}
