// Package types defines the shared data model for the auto-apply engine.
package types

// JobTarget identifies one job posting the engine can apply to.
// Targets come from the job catalog and are read-only inputs; the engine
// never mutates them.
type JobTarget struct {
	ID          string `json:"id"`
	ExternalURL string `json:"external_url"`
	Company     string `json:"company"`
	Title       string `json:"title"`
}
