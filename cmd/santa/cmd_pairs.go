// Package main: the pairs command previews a draw without sending.
package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"secretsanta/internal/phone"
)

// pairsCmd draws and prints an assignment without dispatching anything
var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Draw an assignment and print it without sending",
	Long: `Draws an assignment from the roster and prints a giver/recipient
table. Nothing is sent and nothing is recorded; pass --seed to make the
draw reproducible.`,
	RunE: runPairs,
}

func runPairs(cmd *cobra.Command, args []string) error {
	r, engine, err := loadEngine()
	if err != nil {
		return err
	}

	assignments, err := engine.Assign()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Giver", "Recipient", "Phone"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, giver := range r.Names() {
		p, _ := r.Get(giver)
		notifyAt := p.Phone
		if normalized, err := phone.Normalize(p.Phone); err == nil {
			notifyAt = phone.Mask(normalized)
		}
		table.Append([]string{giver, assignments[giver], notifyAt})
	}
	table.Render()

	return nil
}
