package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bazaarlabs/bazaar/internal/config"
	"github.com/bazaarlabs/bazaar/internal/resources"
	"github.com/bazaarlabs/bazaar/internal/snapshot"
	"github.com/bazaarlabs/bazaar/internal/store/postgres"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all collections as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		registry, err := resources.Load(cfg.ResourcesFile)
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return snapshot.ExportJSONL(cmd.Context(), store, registry.Names(), out)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
}
