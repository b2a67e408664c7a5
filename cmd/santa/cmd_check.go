// Package main: the check command validates the roster without drawing.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"secretsanta/internal/phone"
)

// checkCmd validates the roster and the exclusion constraints
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the roster and report whether a draw is possible",
	Long: `Loads the roster, normalizes every phone number, and checks that
the exclusion constraints still admit at least one complete assignment.
Exits non-zero if anything would stop a run.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, engine, err := loadEngine()
	if err != nil {
		return err
	}

	for _, name := range r.Names() {
		p, _ := r.Get(name)
		if _, err := phone.Normalize(p.Phone); err != nil {
			return fmt.Errorf("participant %q: %w", name, err)
		}
	}

	if !engine.Feasible() {
		return fmt.Errorf("no complete assignment satisfies the exclusions in %s", configPath)
	}

	fmt.Printf("%s: %d participants, all phone numbers valid, draw is feasible\n", configPath, r.Len())
	return nil
}
