package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/config"
	"github.com/jonathan/auto-applier/internal/db"
	"github.com/jonathan/auto-applier/internal/engine"
	"github.com/jonathan/auto-applier/internal/filler"
	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/mapping"
	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/schemas"
	"github.com/jonathan/auto-applier/internal/types"
)

// loadRuntimeConfig loads the optional config file, merges defaults, and
// applies environment overrides for secrets.
func loadRuntimeConfig(configPath string, verbose bool) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	// Secrets come from the environment when the file omits them.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadProfile reads and schema-validates a candidate profile JSON file.
func loadProfile(path string) (types.CandidateProfile, error) {
	var profile types.CandidateProfile

	if schemaPath := schemas.ResolveSchemaPath(schemas.CandidateProfileSchema); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return profile, fmt.Errorf("profile %s: %w", path, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	return profile, nil
}

// loadTargets reads and schema-validates a job targets JSON file.
func loadTargets(path string) ([]types.JobTarget, error) {
	if schemaPath := schemas.ResolveSchemaPath(schemas.JobTargetsSchema); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, fmt.Errorf("targets %s: %w", path, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}
	var targets []types.JobTarget
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("failed to parse targets JSON: %w", err)
	}
	return targets, nil
}

// buildEngine assembles a fully wired engine from the runtime config. The
// database handle is non-nil when a database_url is configured, so callers
// can do run-level bookkeeping; the returned cleanup releases the engine,
// the LLM client and the DB pool.
func buildEngine(ctx context.Context, cfg config.Config, tailor engine.ResumeTailor, logger *zap.Logger) (*engine.Engine, *db.DB, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var drafter *mapping.CoverLetterDrafter
	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.APIKey, llm.DefaultModel)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("llm client: %w", err)
		}
		cleanups = append(cleanups, func() { _ = client.Close() })
		drafter = mapping.NewCoverLetterDrafter(client, logger)
	}

	var database *db.DB
	deps := engine.Dependencies{Tailor: tailor}
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("database: %w", err)
		}
		cleanups = append(cleanups, database.Close)
		deps.Results = database
		deps.Catalog = database
		deps.Profiles = database
	}

	browserOpts := browserOptions(cfg)
	factory := func(ctx context.Context) (filler.Page, error) {
		return browser.NewSession(ctx, browserOpts, logger)
	}

	f := filler.New(filler.Options{
		NavigationTimeout: cfg.NavigationTimeout(),
		SettleTimeout:     cfg.SettleTimeout(),
		ScreenshotDir:     cfg.ScreenshotDir,
	}, drafter, logger)

	e := engine.New(engine.Options{
		InterAttemptDelay: cfg.InterAttemptDelay(),
		ApprovalTTL:       cfg.ApprovalTTL(),
	}, f, factory, deps, logger)
	cleanups = append(cleanups, e.Close)

	return e, database, cleanup, nil
}

// browserOptions derives the session options from config, starting from the
// browser defaults so the user agent and per-operation timeout stay intact.
// Navigation gets its own, longer timeout through the filler options.
func browserOptions(cfg config.Config) browser.Options {
	opts := browser.DefaultOptions()
	opts.Headless = cfg.Headless
	return opts
}

// promptApprovals walks every awaiting-approval result, asks the reviewer on
// stdin, and resumes the held attempt with the decision.
func promptApprovals(ctx context.Context, e *engine.Engine, results []*types.ApplicationResult, printer *observability.Printer, jobs map[string]types.JobTarget) error {
	reader := bufio.NewReader(os.Stdin)

	for _, result := range results {
		if result.Status != types.StatusAwaitingApproval || result.ApprovalHandle == "" {
			continue
		}

		if result.ScreenshotRef != "" {
			fmt.Fprintf(os.Stdout, "Review snapshot: %s\n", result.ScreenshotRef)
		}
		fmt.Fprint(os.Stdout, "Approve submission? [y/N]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read approval decision: %w", err)
		}
		approve := strings.EqualFold(strings.TrimSpace(line), "y")

		final, err := e.ResumeApproval(ctx, result.ApprovalHandle, approve)
		if err != nil {
			return fmt.Errorf("failed to resume approval: %w", err)
		}
		printer.PrintResult(jobs[result.ApprovalHandle], final)
	}
	return nil
}
