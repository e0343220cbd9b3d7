package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auto-applier/internal/observability"
	"github.com/jonathan/auto-applier/internal/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply to a single job posting",
	Long:  "Apply to one job posting: open the form in a browser, fill it from the candidate profile, and submit (or pause for approval with --supervised).",
	RunE:  runApply,
}

var (
	applyJobID      string
	applyJobURL     string
	applyCompany    string
	applyTitle      string
	applyProfile    string
	applyResume     string
	applyCoverText  string
	applySupervised bool
	applyConfig     string
	applyVerbose    bool
)

func init() {
	applyCmd.Flags().StringVar(&applyJobID, "job-id", "", "Job identifier used for persistence")
	applyCmd.Flags().StringVarP(&applyJobURL, "job-url", "u", "", "Application form URL (required)")
	applyCmd.Flags().StringVar(&applyCompany, "company", "", "Company name")
	applyCmd.Flags().StringVar(&applyTitle, "title", "", "Role title")
	applyCmd.Flags().StringVarP(&applyProfile, "profile", "p", "", "Path to candidate profile JSON (required)")
	applyCmd.Flags().StringVarP(&applyResume, "resume", "r", "", "Path to tailored resume PDF (required)")
	applyCmd.Flags().StringVar(&applyCoverText, "cover-letter", "", "Path to a cover letter text file")
	applyCmd.Flags().BoolVarP(&applySupervised, "supervised", "s", false, "Pause for review before submitting")
	applyCmd.Flags().StringVarP(&applyConfig, "config", "c", "", "Path to config JSON file")
	applyCmd.Flags().BoolVarP(&applyVerbose, "verbose", "v", false, "Print detailed debug information")

	applyCmd.MarkFlagRequired("job-url")
	applyCmd.MarkFlagRequired("profile")
	applyCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadRuntimeConfig(applyConfig, applyVerbose)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.Verbose)
	defer logger.Sync() //nolint:errcheck

	profile, err := loadProfile(applyProfile)
	if err != nil {
		return err
	}
	if _, err := os.Stat(applyResume); err != nil {
		return fmt.Errorf("resume file not found: %s", applyResume)
	}

	bundle := types.TailoredResumeBundle{PDFPath: applyResume}
	if applyCoverText != "" {
		text, err := os.ReadFile(applyCoverText)
		if err != nil {
			return fmt.Errorf("failed to read cover letter: %w", err)
		}
		bundle.CoverLetterText = string(text)
	}

	job := types.JobTarget{
		ID:          applyJobID,
		ExternalURL: applyJobURL,
		Company:     applyCompany,
		Title:       applyTitle,
	}
	if job.ID == "" {
		job.ID = job.ExternalURL
	}

	e, _, cleanup, err := buildEngine(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := e.AutoApply(ctx, job, profile, bundle, applySupervised)
	if err != nil && result == nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintResult(job, result)
	if err != nil {
		return err
	}

	if result.Status == types.StatusAwaitingApproval {
		jobs := map[string]types.JobTarget{result.ApprovalHandle: job}
		if err := promptApprovals(ctx, e, []*types.ApplicationResult{result}, printer, jobs); err != nil {
			return err
		}
	}
	return nil
}
