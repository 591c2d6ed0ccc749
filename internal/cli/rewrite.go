package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cybertec-postgresql/sqllimit/internal/database"
	"github.com/cybertec-postgresql/sqllimit/internal/discovery"
	"github.com/cybertec-postgresql/sqllimit/internal/errors"
	"github.com/cybertec-postgresql/sqllimit/internal/limiter"
	"github.com/cybertec-postgresql/sqllimit/internal/logger"
	"github.com/cybertec-postgresql/sqllimit/internal/runner"
)

// stdinFileName is used for the "-" input when writing into a directory
const stdinFileName = "stdin.sql"

// Rewrite executes the rewrite workflow and returns the process exit code.
// stdin and stdout stand in for the "-" input and output.
func Rewrite(ctx context.Context, config *Config, args []string, stdin io.Reader, stdout io.Writer) (int, error) {
	startTime := time.Now()

	strategies, err := limiter.ParseStrategies(config.Strategies)
	if err != nil {
		return errors.ExitContract, err
	}

	// Step 1: Resolve inputs
	files, err := discovery.Resolve(args)
	if err != nil {
		return errors.ExitFailure, fmt.Errorf("failed to resolve inputs: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No SQL files found (*.sql)")
		return errors.ExitOK, nil
	}
	logger.Debug("Found %d input(s)", len(files))

	// Step 2: Connect for verification
	var verifier runner.Verifier
	if config.Verify {
		v, err := database.NewVerifier(ctx, config.Connection, config.Parallelism)
		if err != nil {
			return errors.ExitFailure, err
		}
		defer v.Close()
		verifier = v
	}

	// Step 3: Rewrite (parallel or sequential based on config)
	rw := runner.NewRewriter(config.Limit, config.Offset, strategies, verifier).WithStdin(stdin)
	runs := runner.NewWorkerPool(rw, config.Parallelism).RewriteAll(ctx, files)

	// Step 4: Summary
	summary := runner.Summarize(runs)
	for _, run := range runs {
		if run.Status != runner.RunRewritten {
			logger.Error("%s: %v", run.File.RelativePath, run.Error)
		}
	}
	logger.Debug("Rewrote %d of %d input(s): %d statement(s), %d query(ies) in %v",
		summary.RewrittenFiles, summary.TotalFiles, summary.Statements, summary.Queries,
		time.Since(startTime).Round(time.Millisecond))

	// Step 5: Write output, all or nothing
	if !summary.AllRewritten() {
		logger.Warn("%d input(s) failed, no output written", summary.FailedFiles)
		return summary.ExitCode(), nil
	}
	if err := writeOutputs(config.Output, runs, stdout); err != nil {
		return errors.ExitCode(err), err
	}

	return errors.ExitOK, nil
}

/*
 * writeOutputs stores the rewritten SQL of a batch in which every run
 * succeeded.
 *
 * "-" concatenates all outputs on stdout in input order.  Any other path is a
 * file when there is a single input, and a directory otherwise, receiving
 * each input under its relative path.  Two inputs sharing a relative path are
 * refused before anything is written.
 */
func writeOutputs(output string, runs []*runner.FileRun, stdout io.Writer) error {
	if output == "-" {
		for _, run := range runs {
			if _, err := io.WriteString(stdout, run.Output); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	if len(runs) == 1 {
		return writeFile(output, runs[0].Output)
	}

	names := make([]string, len(runs))
	seen := make(map[string]string, len(runs))
	for i, run := range runs {
		name := filepath.Clean(run.File.RelativePath)
		if run.File.IsStdin() {
			name = stdinFileName
		}
		if prev, ok := seen[name]; ok {
			return errors.NewContractError("output", output,
				fmt.Sprintf("inputs %s and %s would both be written to %s", prev, run.File.Path, name),
				"Pass a common parent directory so the relative paths differ, or write to stdout")
		}
		seen[name] = run.File.Path
		names[i] = name
	}

	for i, run := range runs {
		if err := writeFile(filepath.Join(output, names[i]), run.Output); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	logger.Debug("Wrote %s", path)
	return nil
}
