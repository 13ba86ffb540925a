package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rmkarlsen/tempus/internal/calendar"
	"github.com/spf13/cobra"
)

const instantLayout = "2006-01-02 15:04"

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(instantLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q (expected %q): %w", s, instantLayout, err)
	}
	return t, nil
}

func newHoursCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Business-hours calendar arithmetic",
	}

	cmd.AddCommand(
		newHoursBetweenCmd(app),
		newHoursAddCmd(app),
	)

	return cmd
}

func newHoursBetweenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "between <start> <end>",
		Short: "Count business hours between two instants",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseInstant(args[0])
			if err != nil {
				return err
			}
			end, err := parseInstant(args[1])
			if err != nil {
				return err
			}

			hours, err := calendar.ElapsedBusinessHours(start, end, app.Policy)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%.2f business hours\n", hours)
			return nil
		},
	}
}

func newHoursAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <start> <hours>",
		Short: "Advance an instant by a number of business hours",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseInstant(args[0])
			if err != nil {
				return err
			}
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid hours %q: %w", args[1], err)
			}

			end, err := calendar.AddBusinessHours(start, hours, app.Policy)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", end.Format(instantLayout))
			return nil
		},
	}
}
