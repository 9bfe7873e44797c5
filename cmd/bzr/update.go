package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var updateData string

var updateCmd = &cobra.Command{
	Use:   "update <resource> <id>",
	Short: "Merge a JSON patch into a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch map[string]any
		if err := json.Unmarshal([]byte(updateData), &patch); err != nil {
			return fmt.Errorf("invalid --data JSON: %w", err)
		}

		if err := marketClient.Update(cmd.Context(), args[0], args[1], patch); err != nil {
			return err
		}
		fmt.Printf("updated %s\n", args[1])
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateData, "data", "d", "", "patch as JSON (required)")
	_ = updateCmd.MarkFlagRequired("data")
}
