package mapping

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/resilience"
	"github.com/jonathan/auto-applier/internal/types"
)

// CoverLetterDrafter produces a short cover letter for a specific job when
// the resume bundle arrived without one. Generation is best-effort: the
// degradation chain falls back to the generic placeholder, so a flaky or
// rate-limited LLM never blocks an attempt.
type CoverLetterDrafter struct {
	client   llm.Client
	degrader *resilience.Degrader[string]
	logger   *zap.Logger
}

// NewCoverLetterDrafter wires the drafter. The degrader caches per-job
// drafts so a retried attempt does not pay for a second generation.
func NewCoverLetterDrafter(client llm.Client, logger *zap.Logger) *CoverLetterDrafter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverLetterDrafter{
		client:   client,
		degrader: resilience.NewDegrader[string]().WithDefault(GenericCoverLetter),
		logger:   logger,
	}
}

// Draft returns a cover letter for the job. Priority: bundle text, LLM
// draft, cached draft, generic placeholder.
func (d *CoverLetterDrafter) Draft(ctx context.Context, job types.JobTarget, profile *types.CandidateProfile, bundle *types.TailoredResumeBundle) string {
	if bundle.CoverLetterText != "" {
		return bundle.CoverLetterText
	}
	if d.client == nil {
		return GenericCoverLetter
	}

	draft, err := d.degrader.Execute(ctx, job.ID, func(ctx context.Context) (string, error) {
		return d.generate(ctx, job, profile)
	})
	if err != nil || draft == "" {
		// Unreachable while a default is registered, but don't inject an
		// empty letter if the chain is ever reconfigured.
		d.logger.Warn("cover letter generation failed, using placeholder",
			zap.String("job_id", job.ID), zap.Error(err))
		return GenericCoverLetter
	}
	return draft
}

// generate asks the LLM for a short letter grounded in the profile facts.
func (d *CoverLetterDrafter) generate(ctx context.Context, job types.JobTarget, profile *types.CandidateProfile) (string, error) {
	prompt := fmt.Sprintf(
		"Write a concise cover letter (under 150 words, no salutation placeholders) for the role %q at %q.\n"+
			"Candidate: %s, currently %s at %s, %s years of experience.\n"+
			"Plain text only, first person, no markdown.",
		job.Title, job.Company,
		profile.FullName, profile.CurrentRole, profile.CurrentCompany,
		types.FormatNumber(profile.TotalYears),
	)
	return d.client.GenerateContent(ctx, prompt)
}
