package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/audit/internal/samples"
	"github.com/alfredjeanlab/audit/internal/ui"
)

var samplesCmd = &cobra.Command{
	Use:     "samples",
	Short:   "Inspect the bundled sample circulation logs",
	GroupID: "tenant",
	// Samples are read locally; no server connection is needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var samplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the samples seeded into a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := samples.NewLoader(samples.Embedded(), nil)

		type row struct {
			Name   string `json:"name"`
			ID     string `json:"id"`
			Object string `json:"object"`
			Action string `json:"action"`
		}
		var rows []row
		for _, entry := range samples.Catalog {
			rec, err := loader.Load(context.Background(), samples.LogicalName(entry))
			if err != nil {
				return err
			}
			rows = append(rows, row{Name: entry, ID: rec.ID, Object: rec.Object, Action: rec.Action})
		}

		if jsonOutput {
			return printJSON(rows)
		}
		for _, r := range rows {
			fmt.Printf("%s %s %-14s %s\n",
				ui.RenderAccent(fmt.Sprintf("%-20s", r.Name)),
				ui.RenderMuted(r.ID),
				r.Object, r.Action)
		}
		return nil
	},
}

func init() {
	samplesCmd.AddCommand(samplesListCmd)
}
