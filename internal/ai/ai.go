// Package ai defines the contracts between the pipeline and the language-understanding oracle.
package ai

import (
	"context"
	"fmt"

	"github.com/spigell/resume-builder/internal/profile"
)

// Draft is the oracle's best-effort reading of a résumé.
// MissingFields is advisory: field paths the oracle thinks are incomplete or ambiguous.
type Draft struct {
	Profile       *profile.Profile
	MissingFields []string
	Raw           string
}

// Extractor turns raw résumé text into a Draft. The job description is context only.
type Extractor interface {
	Extract(ctx context.Context, rawText, jobDescription string) (*Draft, error)
}

// SummaryWriter rephrases a profile's professional summary for a job description.
type SummaryWriter interface {
	RewriteSummary(ctx context.Context, p *profile.Profile, jobDescription string) (string, error)
}

// ExtractionError is returned when the oracle output could not be turned into a profile.
type ExtractionError struct {
	Attempts int
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed after %d attempt(s): %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("extraction failed after %d attempt(s)", e.Attempts)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
