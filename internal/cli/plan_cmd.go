package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rmkarlsen/tempus/internal/domain"
	"github.com/rmkarlsen/tempus/internal/intelligence"
	"github.com/rmkarlsen/tempus/internal/plan"
	"github.com/rmkarlsen/tempus/internal/repository"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and inspect task execution plans",
	}

	cmd.AddCommand(
		newPlanGenerateCmd(app),
		newPlanShowCmd(app),
	)

	return cmd
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	var title, description, taskType, taskID string
	var skills []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask the AI planner for a phase-grouped execution plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			proposed, err := app.Planner.GeneratePlan(context.Background(), intelligence.PlanRequest{
				Title:       title,
				Description: description,
				TaskType:    taskType,
				Skills:      skills,
			})
			if err != nil {
				return err
			}

			composer := plan.NewComposer()
			composer.Ingest(proposed.SuggestedPlan)

			out := cmd.OutOrStdout()
			printComposedPlan(out, composer)
			printMetadata(out, proposed.Metadata)

			if taskID != "" {
				if err := app.Steps.ReplaceForTask(context.Background(), taskID, composerRows(taskID, composer)); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nSaved plan for task %s\n", taskID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&taskType, "type", "", "Task type (e.g. Development, Research)")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Relevant skills, comma-separated")
	cmd.Flags().StringVar(&taskID, "task", "", "Persist the plan for this task ID")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show the stored plan for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Steps.ListByTask(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No plan stored for task %s\n", args[0])
				return nil
			}

			composer := plan.NewComposer()
			composer.Ingest(rowsToRaw(rows))
			printComposedPlan(cmd.OutOrStdout(), composer)
			return nil
		},
	}
}

// composerRows flattens the composed plan into ordered step rows, keeping
// the per-step risk and note that FlatStep drops.
func composerRows(taskID string, c *plan.Composer) []repository.StepRow {
	var rows []repository.StepRow
	for _, phase := range c.Phases() {
		for _, s := range c.Steps(phase) {
			rows = append(rows, repository.StepRow{
				TaskID: taskID,
				Phase:  phase,
				Title:  s.Title,
				Hours:  s.Hours,
				Risk:   s.Risk,
				Note:   s.Note,
			})
		}
	}
	return rows
}

func rowsToRaw(rows []repository.StepRow) []plan.RawStep {
	raw := make([]plan.RawStep, 0, len(rows))
	for _, r := range rows {
		raw = append(raw, plan.RawStep{
			Phase:    string(r.Phase),
			Title:    r.Title,
			Duration: r.Hours,
			Risk:     string(r.Risk),
			Note:     r.Note,
		})
	}
	return raw
}

func printComposedPlan(out io.Writer, c *plan.Composer) {
	for _, phase := range c.Phases() {
		fmt.Fprintf(out, "%s\n", domain.PhaseLabels[phase])
		for i, s := range c.Steps(phase) {
			fmt.Fprintf(out, "  %d. %s (%.0fh, %s risk)", i+1, s.Title, s.Hours, s.Risk)
			if s.Note != "" {
				fmt.Fprintf(out, " [%s]", s.Note)
			}
			fmt.Fprintln(out)
		}
	}

	t := c.Totals()
	fmt.Fprintf(out, "\n%d steps, %.0f hours, %.0f points\n", t.StepCount, t.TotalHours, t.TotalPoints)
}

func printMetadata(out io.Writer, meta intelligence.PlanMetadata) {
	if len(meta.OverallRisks) > 0 {
		fmt.Fprintf(out, "\nRisks: %s\n", strings.Join(meta.OverallRisks, "; "))
	}
	if len(meta.Assumptions) > 0 {
		fmt.Fprintf(out, "Assumptions: %s\n", strings.Join(meta.Assumptions, "; "))
	}
	if meta.Model != "" {
		fmt.Fprintf(out, "Model: %s\n", meta.Model)
	}
}
