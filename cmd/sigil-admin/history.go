// ABOUTME: History command listing recent entries from the local journal
// ABOUTME: Supports limit, command, and failed-only filtering

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/sigilworks/sigil-console/internal/journal"
)

// cmdHistory lists recent commands from the local journal.
func (c *console) cmdHistory(args []string) error {
	if c.journal == nil {
		return fmt.Errorf("journal unavailable")
	}

	filter := journal.Filter{Limit: 20}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--limit", "-n":
			if i+1 < len(args) {
				n, err := strconv.Atoi(args[i+1])
				if err != nil {
					return fmt.Errorf("invalid limit: %w", err)
				}
				filter.Limit = n
				i++
			}
		case "--command", "-c":
			if i+1 < len(args) {
				cmd := args[i+1]
				filter.Command = &cmd
				i++
			}
		case "--failed":
			failed := journal.OutcomeError
			filter.Outcome = &failed
		}
	}

	entries, err := c.journal.List(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("listing journal: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  History")
	cyan.Println("  -------")

	if len(entries) == 0 {
		fmt.Println("  (no journal entries)")
		fmt.Println()
		return nil
	}

	red := color.New(color.FgRed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  TIME\tCOMMAND\tTARGET\tORG\tOUTCOME")
	fmt.Fprintln(w, "  ----\t-------\t------\t---\t-------")
	for _, e := range entries {
		outcome := string(e.Outcome)
		if e.Outcome == journal.OutcomeError {
			outcome = red.Sprint(outcome)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("Jan 02 15:04"),
			e.Command,
			truncate(e.Target, 28),
			truncate(e.OrganizationID, 16),
			outcome)
	}
	w.Flush()
	fmt.Println()

	return nil
}
