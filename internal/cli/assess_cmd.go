package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/rmkarlsen/tempus/internal/intelligence"
	"github.com/rmkarlsen/tempus/internal/risk"
	"github.com/spf13/cobra"
)

func newAssessCmd(app *App) *cobra.Command {
	var title, start, employee, role string
	var allocated, progress float64

	cmd := &cobra.Command{
		Use:   "assess <task-id>",
		Short: "Assess a task's delivery risk and record a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			windowStart, err := parseInstant(start)
			if err != nil {
				return err
			}
			if progress < 0 || progress > 1 {
				return fmt.Errorf("progress must be between 0 and 1, got %g", progress)
			}

			got, err := app.Assessor.Assess(context.Background(), risk.AssessRequest{
				TaskID:         args[0],
				Title:          title,
				WindowStart:    windowStart,
				AllocatedHours: allocated,
				ProgressRatio:  progress,
				Employee:       intelligence.EmployeeContext{Name: employee, Role: role},
			})
			if err != nil {
				return err
			}

			printSnapshot(cmd.OutOrStdout(), got.Snapshot)
			if got.Degraded {
				fmt.Fprintln(cmd.OutOrStdout(), "\n(AI narration unavailable; deterministic assessment recorded)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title for the narrative")
	cmd.Flags().StringVar(&start, "start", "", "Window start (YYYY-MM-DD HH:MM)")
	cmd.Flags().Float64Var(&allocated, "allocated", 0, "Allocated business hours")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Completion ratio in [0,1]")
	cmd.Flags().StringVar(&employee, "employee", "", "Assignee name")
	cmd.Flags().StringVar(&role, "role", "", "Assignee role")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("allocated")

	return cmd
}

func printSnapshot(out io.Writer, s domain.RiskSnapshot) {
	fmt.Fprintf(out, "Risk: %s (confidence %d%%)\n", strings.ToUpper(string(s.RiskLevel)), s.Confidence)
	fmt.Fprintf(out, "Elapsed %.2fh of %.2fh allocated, %.0f%% done\n",
		s.Metrics.ElapsedHours, s.Metrics.AllocatedHours, s.Metrics.ProgressRatio*100)
	if s.Metrics.PredictedDelayHours > 0 {
		fmt.Fprintf(out, "Predicted total %.2fh (%.2fh over budget)\n",
			s.Metrics.PredictedTotalHours, s.Metrics.PredictedDelayHours)
	}
	for _, r := range s.Reasons {
		fmt.Fprintf(out, "  - %s\n", r)
	}
	if len(s.Actions) > 0 {
		fmt.Fprintln(out, "Recommended:")
		for _, a := range s.Actions {
			fmt.Fprintf(out, "  - %s\n", a)
		}
	}
}
