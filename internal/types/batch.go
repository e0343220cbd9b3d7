package types

// BatchRequest describes one batch run for a single candidate. Attempts
// within a run execute sequentially against one browser; the daily limit and
// inter-attempt delay assume serial execution.
type BatchRequest struct {
	CandidateProfile CandidateProfile `json:"candidate_profile" validate:"required"`
	JobTargets       []JobTarget      `json:"job_targets" validate:"required,min=1,dive"`
	DailyLimit       int              `json:"daily_limit" validate:"gt=0"`
	Supervised       bool             `json:"supervised"`
}

// BatchSummary aggregates the outcome of a batch run. Results appear in the
// same order the targets were submitted; targets beyond the daily limit are
// untouched and produce no entry.
type BatchSummary struct {
	Attempted int                  `json:"attempted"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Results   []*ApplicationResult `json:"results"`
}

// Record appends a result and updates the counters. Awaiting-approval
// hand-offs count as attempted but neither succeeded nor failed.
func (s *BatchSummary) Record(r *ApplicationResult) {
	s.Attempted++
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusSubmitted:
		s.Succeeded++
	case StatusFailed:
		s.Failed++
	}
}
