package runner

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cybertec-postgresql/sqllimit/internal/discovery"
	"github.com/cybertec-postgresql/sqllimit/internal/errors"
	"github.com/cybertec-postgresql/sqllimit/internal/limiter"
	"github.com/cybertec-postgresql/sqllimit/internal/logger"
)

// Verifier checks rewritten SQL, typically against a live server
type Verifier interface {
	Verify(ctx context.Context, sql string) error
}

// Rewriter applies one enforcement request to inputs
type Rewriter struct {
	limit      int
	offset     *int
	strategies []limiter.Strategy
	verifier   Verifier
	stdin      io.Reader
}

// NewRewriter creates a rewriter. verifier may be nil.
func NewRewriter(limit int, offset *int, strategies []limiter.Strategy, verifier Verifier) *Rewriter {
	return &Rewriter{
		limit:      limit,
		offset:     offset,
		strategies: strategies,
		verifier:   verifier,
		stdin:      os.Stdin,
	}
}

// WithStdin replaces the reader used for the "-" input
func (r *Rewriter) WithStdin(stdin io.Reader) *Rewriter {
	r.stdin = stdin
	return r
}

// Rewrite reads one input, enforces the limit on it and verifies the result
func (r *Rewriter) Rewrite(ctx context.Context, file *discovery.DiscoveredFile) *FileRun {
	run := &FileRun{
		File:      file,
		StartTime: time.Now(),
		Status:    RunPending,
	}

	err := r.rewrite(ctx, run)
	switch {
	case err == nil:
		run.Status = RunRewritten
	case ctx.Err() != nil:
		run.Status = RunCancelled
		run.Error = ctx.Err()
	default:
		run.Status = RunFailed
		run.Error = err
		logger.Debug("%s: %v", file.RelativePath, err)
	}

	run.EndTime = time.Now()
	return run
}

// RewriteBatch rewrites inputs sequentially
func (r *Rewriter) RewriteBatch(ctx context.Context, files []discovery.DiscoveredFile) []*FileRun {
	runs := make([]*FileRun, 0, len(files))
	for i := range files {
		if ctx.Err() != nil {
			runs = append(runs, cancelledRun(&files[i], ctx.Err()))
			continue
		}
		logger.Debug("Rewriting %s", files[i].RelativePath)
		runs = append(runs, r.Rewrite(ctx, &files[i]))
	}
	return runs
}

func (r *Rewriter) rewrite(ctx context.Context, run *FileRun) error {
	sql, err := r.read(run.File)
	if err != nil {
		return err
	}

	res, err := limiter.Process(limiter.Request{
		SQL:          sql,
		LimitNumber:  r.limit,
		OffsetNumber: r.offset,
		Strategies:   r.strategies,
	})
	if err != nil {
		return err
	}

	if r.verifier != nil {
		if err := r.verifier.Verify(ctx, res.SQL); err != nil {
			return err
		}
	}

	run.Output = res.SQL
	run.Statements = res.Statements
	run.Queries = res.Queries
	return nil
}

func (r *Rewriter) read(file *discovery.DiscoveredFile) (string, error) {
	if file.IsStdin() {
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return "", errors.NewInputError(file.Path, err.Error())
		}
		return string(data), nil
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return "", errors.NewInputError(file.Path, err.Error())
	}
	return string(data), nil
}

func cancelledRun(file *discovery.DiscoveredFile, err error) *FileRun {
	now := time.Now()
	return &FileRun{
		File:      file,
		StartTime: now,
		EndTime:   now,
		Status:    RunCancelled,
		Error:     err,
	}
}
