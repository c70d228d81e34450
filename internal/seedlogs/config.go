// Package seedlogs drives a running evaluation service with synthetic
// candidate sessions: assist calls, outcome reports and a final
// evaluation per candidate. It exists to exercise the full pipeline
// against local or staging deployments.
package seedlogs

import "time"

// Config controls a seed run.
type Config struct {
	// BaseURL of the running service, e.g. http://localhost:8080.
	BaseURL string

	// Candidates is the number of synthetic candidates to simulate.
	Candidates int

	// SessionsPerCandidate is the number of assist/outcome round trips
	// per candidate.
	SessionsPerCandidate int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Verbose enables per-request logging.
	Verbose bool
}
