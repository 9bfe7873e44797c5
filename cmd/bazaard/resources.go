package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bazaarlabs/bazaar/internal/resources"
)

var resourcesFile string

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Show the registered resources and their query limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resourcesFile == "" {
			resourcesFile = os.Getenv("BAZAAR_RESOURCES_FILE")
		}
		registry, err := resources.Load(resourcesFile)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RESOURCE\tDEFAULT SORT\tPAGE SIZE\tMAX\tFILTERABLE\tSORTABLE")
		for _, name := range registry.Names() {
			cfg, err := registry.Get(name)
			if err != nil {
				return err
			}
			sort := cfg.DefaultSort.Field
			if cfg.DefaultSort.Direction == "desc" {
				sort = "-" + sort
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
				name, sort, cfg.DefaultPageSize, cfg.MaxPageSize,
				len(cfg.FilterableFields), len(cfg.SortableFields))
		}
		return w.Flush()
	},
}

func init() {
	resourcesCmd.Flags().StringVar(&resourcesFile, "file", "", "TOML overrides file (default $BAZAAR_RESOURCES_FILE)")
}
