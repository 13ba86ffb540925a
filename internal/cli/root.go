package cli

import (
	"github.com/rmkarlsen/tempus/internal/calendar"
	"github.com/rmkarlsen/tempus/internal/intelligence"
	"github.com/rmkarlsen/tempus/internal/repository"
	"github.com/rmkarlsen/tempus/internal/risk"
	"github.com/spf13/cobra"
)

// App holds references to everything CLI commands need.
type App struct {
	Policy   calendar.Policy
	Planner  intelligence.PlannerService
	Assessor *risk.Assessor
	Steps    repository.StepRepo
}

// NewRootCmd creates the top-level "tempus" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tempus",
		Short: "Business-hours task scheduling and risk assessment",
	}

	root.AddCommand(
		newHoursCmd(app),
		newWindowCmd(app),
		newPlanCmd(app),
		newAssessCmd(app),
		newRiskCmd(app),
	)

	return root
}
