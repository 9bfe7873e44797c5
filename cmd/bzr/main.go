package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bazaarlabs/bazaar/internal/client"
)

var (
	httpURL    string
	token      string
	jsonOutput bool

	marketClient client.MarketClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("BAZAAR_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "bzr <command>",
	Short: "CLI client for the bazaar service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		marketClient = client.NewHTTPClient(httpURL, token)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if marketClient != nil {
			marketClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BAZAAR_AUTH_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
