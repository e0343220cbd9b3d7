package engine

import (
	"context"

	"github.com/jonathan/auto-applier/internal/types"
)

// JobCatalog resolves job identifiers into application targets.
type JobCatalog interface {
	GetJobTarget(ctx context.Context, jobID string) (types.JobTarget, error)
}

// ProfileStore provides the candidate snapshot an attempt runs with.
type ProfileStore interface {
	GetCandidateProfile(ctx context.Context, userID string) (types.CandidateProfile, error)
}

// ResumeTailor produces the rendered resume bundle for a specific job. This
// is the flaky remote dependency the batch loop wraps in retry and a circuit
// breaker.
type ResumeTailor interface {
	GetOrBuildResumeBundle(ctx context.Context, userID, jobID string) (types.TailoredResumeBundle, error)
}

// ResultStore records attempt outcomes. The engine only writes; it never
// re-reads a persisted result.
type ResultStore interface {
	PersistApplicationResult(ctx context.Context, userID, jobID string, result *types.ApplicationResult) error
}

// NoopResultStore backs runs without a database. It discards everything.
type NoopResultStore struct{}

func (NoopResultStore) PersistApplicationResult(context.Context, string, string, *types.ApplicationResult) error {
	return nil
}

// StaticResumeTailor serves one pre-built bundle for every job. The CLI uses
// it when the caller supplies a resume path directly instead of a tailoring
// service.
type StaticResumeTailor struct {
	Bundle types.TailoredResumeBundle
}

func (s StaticResumeTailor) GetOrBuildResumeBundle(context.Context, string, string) (types.TailoredResumeBundle, error) {
	return s.Bundle, nil
}
