package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/auto-applier/internal/config"
	"github.com/jonathan/auto-applier/internal/engine"
	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Apply to a list of jobs for one or more candidates",
	Long:  "Run a batch of applications from a job targets file. Multiple --profile files run concurrently, each with its own engine and browser; attempts within one run are sequential and capped by the daily limit. With --user-id the profile and targets are resolved from the database instead of files.",
	RunE:  runBatch,
}

var (
	batchProfiles   []string
	batchUserID     string
	batchJobs       string
	batchJobIDs     []string
	batchResume     string
	batchDailyLimit int
	batchSupervised bool
	batchConfig     string
	batchVerbose    bool
)

func init() {
	batchCmd.Flags().StringSliceVarP(&batchProfiles, "profile", "p", nil, "Candidate profile JSON (repeatable)")
	batchCmd.Flags().StringVar(&batchUserID, "user-id", "", "Resolve the candidate from the database instead of --profile")
	batchCmd.Flags().StringVarP(&batchJobs, "jobs", "j", "", "Path to job targets JSON")
	batchCmd.Flags().StringSliceVar(&batchJobIDs, "job-id", nil, "Job catalog IDs to resolve from the database (repeatable)")
	batchCmd.Flags().StringVarP(&batchResume, "resume", "r", "", "Path to resume PDF used for every job (required)")
	batchCmd.Flags().IntVarP(&batchDailyLimit, "daily-limit", "n", 0, "Max attempts for this run (default from config)")
	batchCmd.Flags().BoolVarP(&batchSupervised, "supervised", "s", false, "Pause each attempt for review before submitting")
	batchCmd.Flags().StringVarP(&batchConfig, "config", "c", "", "Path to config JSON file")
	batchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print detailed debug information")

	batchCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(batchCmd)
}

// batchRun holds one candidate's finished run so approvals and summaries can
// be handled after the concurrent phase.
type batchRun struct {
	engine  *engine.Engine
	summary *types.BatchSummary
	targets []types.JobTarget
	label   string
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if len(batchProfiles) == 0 && batchUserID == "" {
		return fmt.Errorf("either --profile or --user-id must be provided")
	}
	if len(batchProfiles) > 0 && batchUserID != "" {
		return fmt.Errorf("--profile and --user-id are mutually exclusive; provide only one")
	}

	cfg, err := loadRuntimeConfig(batchConfig, batchVerbose)
	if err != nil {
		return err
	}
	if batchDailyLimit > 0 {
		cfg.DailyLimit = batchDailyLimit
	}
	logger := observability.NewLogger(cfg.Verbose)
	defer logger.Sync() //nolint:errcheck

	if _, err := os.Stat(batchResume); err != nil {
		return fmt.Errorf("resume file not found: %s", batchResume)
	}

	if batchUserID != "" {
		return runBatchFromDB(cmd, cfg, logger)
	}

	if batchJobs == "" {
		return fmt.Errorf("--jobs is required with --profile")
	}
	targets, err := loadTargets(batchJobs)
	if err != nil {
		return err
	}

	// Each candidate gets an isolated engine and browser; runs share nothing.
	runs := make([]*batchRun, len(batchProfiles))
	cleanups := make([]func(), 0, len(batchProfiles))
	defer func() {
		for _, c := range cleanups {
			c()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for i, profilePath := range batchProfiles {
		profile, err := loadProfile(profilePath)
		if err != nil {
			return err
		}

		tailor := engine.StaticResumeTailor{Bundle: types.TailoredResumeBundle{PDFPath: batchResume}}
		e, _, cleanup, err := buildEngine(ctx, cfg, tailor, logger)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, cleanup)

		g.Go(func() error {
			summary, err := e.BatchAutoApply(gctx, &types.BatchRequest{
				CandidateProfile: profile,
				JobTargets:       targets,
				DailyLimit:       cfg.DailyLimit,
				Supervised:       batchSupervised,
			})
			mu.Lock()
			runs[i] = &batchRun{engine: e, summary: summary, targets: targets, label: profilePath}
			mu.Unlock()
			return err
		})
	}
	runErr := g.Wait()

	printBatchRuns(ctx, runs)
	return runErr
}

// runBatchFromDB resolves the candidate and targets through the database
// collaborators and runs a single batch with run-level bookkeeping: earlier
// attempts today count against the daily cap, and the run itself is recorded
// in batch_runs.
func runBatchFromDB(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
	ctx := cmd.Context()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--user-id requires a configured database_url")
	}
	if len(batchJobIDs) == 0 {
		return fmt.Errorf("--user-id requires at least one --job-id")
	}

	tailor := engine.StaticResumeTailor{Bundle: types.TailoredResumeBundle{PDFPath: batchResume}}
	e, database, cleanup, err := buildEngine(ctx, cfg, tailor, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	used, err := database.CountResultsSince(ctx, batchUserID, startOfDay(time.Now()))
	if err != nil {
		return err
	}
	limit := cfg.DailyLimit - used
	if limit <= 0 {
		fmt.Fprintf(os.Stdout, "Daily limit of %d already reached for user %s (%d attempts today)\n",
			cfg.DailyLimit, batchUserID, used)
		return nil
	}

	runID, err := database.StartBatchRun(ctx, batchUserID, limit, batchSupervised)
	if err != nil {
		return err
	}

	summary, runErr := e.BatchAutoApplyForUser(ctx, batchUserID, batchJobIDs, batchSupervised, limit)

	status := "completed"
	if runErr != nil {
		status = "aborted"
	}
	record := summary
	if record == nil {
		record = &types.BatchSummary{}
	}
	if err := database.CompleteBatchRun(ctx, runID, status, record); err != nil {
		logger.Warn("batch run bookkeeping failed", zap.String("run_id", runID.String()), zap.Error(err))
	}

	if summary != nil {
		run := &batchRun{engine: e, summary: summary, label: batchUserID}
		printBatchRuns(ctx, []*batchRun{run})
	}
	return runErr
}

// startOfDay truncates t to midnight in its own location, the boundary the
// daily cap resets on.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// printBatchRuns renders each run's per-job results, resolves any pending
// approvals on stdin, and prints the summaries.
func printBatchRuns(ctx context.Context, runs []*batchRun) {
	printer := observability.NewPrinter(os.Stdout)
	for _, run := range runs {
		if run == nil || run.summary == nil {
			continue
		}
		fmt.Fprintf(os.Stdout, "\nCandidate: %s\n", run.label)
		jobs := make(map[string]types.JobTarget, len(run.summary.Results))
		for i, result := range run.summary.Results {
			var job types.JobTarget
			if i < len(run.targets) {
				job = run.targets[i]
			}
			printer.PrintResult(job, result)
			if result.ApprovalHandle != "" {
				jobs[result.ApprovalHandle] = job
			}
		}
		if batchSupervised {
			if err := promptApprovals(ctx, run.engine, run.summary.Results, printer, jobs); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
		printer.PrintSummary(run.summary)
	}
}
