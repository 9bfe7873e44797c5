package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/bazaarlabs/bazaar/internal/resources"
	"github.com/bazaarlabs/bazaar/internal/sieve"
)

var (
	listFilters  string
	listSorts    string
	listPage     int
	listPageSize int
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List documents in a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resource := args[0]

		registry, err := resources.Default()
		if err != nil {
			return err
		}
		cfg, err := registry.Get(resource)
		if err != nil {
			return err
		}

		// Validate the query locally with the same parser the server uses,
		// so bad tokens are reported instead of silently dropped.
		params := url.Values{}
		if listFilters != "" {
			params.Set("filters", listFilters)
		}
		if listSorts != "" {
			params.Set("sorts", listSorts)
		}
		if listPage > 0 {
			params.Set("page", fmt.Sprintf("%d", listPage))
		}
		if listPageSize > 0 {
			params.Set("pageSize", fmt.Sprintf("%d", listPageSize))
		}

		q, qerrs := sieve.ParseQuery(params, cfg)
		for _, qe := range qerrs {
			fmt.Fprintf(os.Stderr, "warning: %s\n", qe.Error())
		}

		page, err := marketClient.List(cmd.Context(), resource, q)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(page)
		}

		for _, record := range page.Data {
			id, _ := record["id"].(string)
			data, _ := json.Marshal(record)
			fmt.Printf("%s\t%s\n", id, data)
		}
		fmt.Printf("page %d/%d, %d total", page.Page, page.TotalPages, page.Total)
		if page.ApproximateTotal {
			fmt.Print(" (approximate)")
		}
		fmt.Println()
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFilters, "filters", "f", "", `filter tokens, e.g. "status==published,price>100"`)
	listCmd.Flags().StringVarP(&listSorts, "sorts", "s", "", `sort tokens, e.g. "-createdAt,price"`)
	listCmd.Flags().IntVar(&listPage, "page", 0, "page number")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "page size")
}
