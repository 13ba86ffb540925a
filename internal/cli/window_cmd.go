package cli

import (
	"fmt"

	"github.com/rmkarlsen/tempus/internal/schedule"
	"github.com/spf13/cobra"
)

// newWindowCmd simulates a window editing session: field flags are applied
// in the order a form would commit them, then the resolved window and
// duration are printed. Passing --hours after the dates hands authority to
// the duration side, exactly as editing the hours field would.
func newWindowCmd(app *App) *cobra.Command {
	var startDate, startTime, endDate, endTime string
	var hours float64

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Resolve a work window against the business-hours policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync := schedule.NewSync(app.Policy, 0)

			if startDate != "" {
				if err := sync.OnStartFieldChange(schedule.FieldStartDate, startDate); err != nil {
					return err
				}
			}
			if startTime != "" {
				if err := sync.OnStartFieldChange(schedule.FieldStartTime, startTime); err != nil {
					return err
				}
			}
			if endDate != "" {
				if err := sync.OnEndFieldChange(schedule.FieldEndDate, endDate); err != nil {
					return err
				}
			}
			if endTime != "" {
				if err := sync.OnEndFieldChange(schedule.FieldEndTime, endTime); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("hours") {
				if err := sync.OnHoursChange(hours); err != nil {
					return err
				}
			}

			if err := sync.Validate(); err != nil {
				return err
			}

			w := sync.Window()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Start:  %s %s\n", w.StartDate, w.StartTime)
			fmt.Fprintf(out, "End:    %s %s\n", w.EndDate, w.EndTime)
			fmt.Fprintf(out, "Hours:  %.2f\n", sync.Hours())
			fmt.Fprintf(out, "Anchor: %s\n", sync.Anchor())
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "Window start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startTime, "start-time", "", "Window start time (HH:MM)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Window end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endTime, "end-time", "", "Window end time (HH:MM)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Allocated business hours (derives the end endpoint)")

	return cmd
}
