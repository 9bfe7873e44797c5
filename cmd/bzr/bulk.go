package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bazaarlabs/bazaar/internal/client"
)

var (
	bulkAction string
	bulkIDs    string
	bulkData   string
	bulkUser   string
	bulkTx     bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <resource>",
	Short: "Apply an action to a batch of documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.BulkRequest{
			Action:        bulkAction,
			IDs:           splitIDs(bulkIDs),
			UserID:        bulkUser,
			Transactional: bulkTx,
		}
		if bulkData != "" {
			if err := json.Unmarshal([]byte(bulkData), &req.Data); err != nil {
				return fmt.Errorf("invalid --data JSON: %w", err)
			}
		}

		result, err := marketClient.BulkApply(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(result)
		}

		fmt.Println(result.Message)
		for _, ie := range result.Errors {
			fmt.Printf("  %s: %s\n", ie.ID, ie.Error)
		}
		return nil
	},
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func init() {
	bulkCmd.Flags().StringVarP(&bulkAction, "action", "a", "", "action name (required)")
	bulkCmd.Flags().StringVar(&bulkIDs, "ids", "", "comma-separated document IDs (required)")
	bulkCmd.Flags().StringVarP(&bulkData, "data", "d", "", "extra fields to merge, as JSON")
	bulkCmd.Flags().StringVarP(&bulkUser, "user", "u", "", "acting user ID")
	bulkCmd.Flags().BoolVar(&bulkTx, "transactional", false, "all-or-nothing instead of best-effort")
	_ = bulkCmd.MarkFlagRequired("action")
	_ = bulkCmd.MarkFlagRequired("ids")
}
