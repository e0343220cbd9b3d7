package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/auto-applier/internal/types"
)

// GetCandidateProfile loads the candidate snapshot used to fill forms.
func (db *DB) GetCandidateProfile(ctx context.Context, userID string) (types.CandidateProfile, error) {
	var p types.CandidateProfile
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, full_name, email, phone, location, current_role, current_company,
		        total_years, current_ctc, expected_ctc, notice_period_days, linkedin_url
		 FROM candidate_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.Location, &p.CurrentRole,
		&p.CurrentCompany, &p.TotalYears, &p.CurrentCTC, &p.ExpectedCTC,
		&p.NoticePeriodDays, &p.LinkedinURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("no candidate profile for user %s", userID)
		}
		return p, fmt.Errorf("failed to load candidate profile: %w", err)
	}
	return p, nil
}

// GetJobTarget loads one job posting from the catalog.
func (db *DB) GetJobTarget(ctx context.Context, jobID string) (types.JobTarget, error) {
	var t types.JobTarget
	err := db.pool.QueryRow(ctx,
		`SELECT id, external_url, company, title FROM job_targets WHERE id = $1`,
		jobID,
	).Scan(&t.ID, &t.ExternalURL, &t.Company, &t.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, fmt.Errorf("no job target %s in catalog", jobID)
		}
		return t, fmt.Errorf("failed to load job target: %w", err)
	}
	return t, nil
}
