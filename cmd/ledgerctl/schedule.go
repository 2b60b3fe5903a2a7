package main

import (
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <amount>",
		Short: "Preview the installments a checkout would create",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedule,
	}
	cmd.Flags().String("cadence", string(schedule.Monthly3), "Repayment cadence")
	cmd.Flags().String("start", "", "Checkout date (YYYY-MM-DD), defaults to today")
	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	amount, err := money.Parse(args[0])
	if err != nil {
		return err
	}
	rawCadence, _ := cmd.Flags().GetString("cadence")
	cadence, err := schedule.ParseCadence(rawCadence)
	if err != nil {
		return err
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if raw, _ := cmd.Flags().GetString("start"); raw != "" {
		start, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}

	entries, err := schedule.Build(amount, cadence, start)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDUE\tAMOUNT")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.Sequence, e.DueDate.Format(time.DateOnly), e.Amount)
	}
	fmt.Fprintf(w, "\tTOTAL\t%s\n", schedule.Total(entries))
	return w.Flush()
}
