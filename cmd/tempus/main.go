package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rmkarlsen/tempus/internal/cli"
	"github.com/rmkarlsen/tempus/internal/config"
	"github.com/rmkarlsen/tempus/internal/db"
	"github.com/rmkarlsen/tempus/internal/intelligence"
	"github.com/rmkarlsen/tempus/internal/llm"
	"github.com/rmkarlsen/tempus/internal/repository"
	"github.com/rmkarlsen/tempus/internal/risk"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, llm.ErrMissingAPIKey) && isatty.IsTerminal(os.Stderr.Fd()) {
			fmt.Fprintln(os.Stderr, "Hint: set TEMPUS_LLM_API_KEY (or OPENAI_API_KEY) to enable AI commands.")
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
	stepRepo := repository.NewSQLiteStepRepo(database)

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}

	// With no API key, AI-backed commands fail with the configuration error
	// at call time; calendar and inspection commands stay usable.
	var client llm.Client
	client, err = llm.NewChatClient(cfg.LLM, observer)
	if err != nil {
		if !errors.Is(err, llm.ErrMissingAPIKey) {
			return err
		}
		client = unavailableClient{err: err}
	}

	app := &cli.App{
		Policy:   policy,
		Planner:  intelligence.NewPlannerService(client, observer),
		Assessor: risk.NewAssessor(intelligence.NewNarrativeService(client, observer), snapshotRepo, policy, cfg.LLM.Model, nil),
		Steps:    stepRepo,
	}

	return cli.NewRootCmd(app).Execute()
}

// unavailableClient stands in when the LLM is not configured.
type unavailableClient struct {
	err error
}

func (c unavailableClient) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return nil, c.err
}
