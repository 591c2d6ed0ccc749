package runner

import (
	"time"

	"github.com/cybertec-postgresql/sqllimit/internal/discovery"
	"github.com/cybertec-postgresql/sqllimit/internal/errors"
)

// FileRun represents the rewrite of a single input
type FileRun struct {
	File       *discovery.DiscoveredFile
	StartTime  time.Time
	EndTime    time.Time
	Status     RunStatus
	Output     string // Rewritten SQL; empty when the run failed
	Statements int    // Statements found in the input
	Queries    int    // Statements the limit was enforced on
	Error      error  // Non-nil if the run failed
}

// RunStatus represents the state of a file rewrite
type RunStatus int

const (
	RunPending RunStatus = iota
	RunRewritten
	RunFailed
	RunCancelled
)

// String returns a string representation of RunStatus
func (rs RunStatus) String() string {
	switch rs {
	case RunPending:
		return "pending"
	case RunRewritten:
		return "rewritten"
	case RunFailed:
		return "failed"
	case RunCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Duration returns the rewrite duration
func (fr *FileRun) Duration() time.Duration {
	if fr.EndTime.IsZero() {
		return time.Since(fr.StartTime)
	}
	return fr.EndTime.Sub(fr.StartTime)
}

// Summary summarizes a batch of rewrites
type Summary struct {
	TotalFiles     int
	RewrittenFiles int
	FailedFiles    int
	Statements     int
	Queries        int
	TotalDuration  time.Duration
	FirstError     error
}

// Summarize folds runs into a Summary
func Summarize(runs []*FileRun) *Summary {
	s := &Summary{TotalFiles: len(runs)}
	for _, run := range runs {
		if run == nil {
			continue
		}
		s.TotalDuration += run.Duration()
		if run.Status == RunRewritten {
			s.RewrittenFiles++
			s.Statements += run.Statements
			s.Queries += run.Queries
			continue
		}
		s.FailedFiles++
		if s.FirstError == nil {
			s.FirstError = run.Error
		}
	}
	return s
}

// AllRewritten returns true if every input was rewritten
func (s *Summary) AllRewritten() bool {
	return s.FailedFiles == 0
}

// ExitCode returns the process exit code for the batch
func (s *Summary) ExitCode() int {
	if s.AllRewritten() {
		return 0
	}
	return errors.ExitCode(s.FirstError)
}
