package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Inspect recorded risk snapshots",
	}

	cmd.AddCommand(
		newRiskLatestCmd(app),
		newRiskHistoryCmd(app),
	)

	return cmd
}

func newRiskLatestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <task-id>",
		Short: "Show the most recent snapshot for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.Assessor.Latest(context.Background(), args[0])
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), *snap)
			return nil
		},
	}
}

func newRiskHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <task-id>",
		Short: "List all snapshots for a task, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := app.Assessor.History(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No snapshots for task %s\n", args[0])
				return nil
			}

			for _, s := range snapshots {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-6s  confidence %3d%%  %.0f%% done\n",
					s.ComputedAt.Format("2006-01-02 15:04"), s.RiskLevel, s.Confidence,
					s.Metrics.ProgressRatio*100)
			}
			return nil
		},
	}
}
