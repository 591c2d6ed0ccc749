package runner

import (
	"context"
	"sync"

	"github.com/cybertec-postgresql/sqllimit/internal/discovery"
	"github.com/cybertec-postgresql/sqllimit/internal/logger"
)

// WorkerPool rewrites many inputs concurrently
type WorkerPool struct {
	rewriter   *Rewriter
	maxWorkers int
}

// NewWorkerPool creates a new worker pool with at most maxWorkers goroutines
func NewWorkerPool(rewriter *Rewriter, maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		rewriter:   rewriter,
		maxWorkers: maxWorkers,
	}
}

// RewriteAll rewrites every input and returns the runs in input order,
// whatever order the workers finish in
func (wp *WorkerPool) RewriteAll(ctx context.Context, files []discovery.DiscoveredFile) []*FileRun {
	numFiles := len(files)
	if numFiles == 0 {
		return nil
	}

	// If only one worker or one file, fall back to sequential execution
	if wp.maxWorkers == 1 || numFiles == 1 {
		return wp.rewriter.RewriteBatch(ctx, files)
	}

	workers := wp.maxWorkers
	if workers > numFiles {
		workers = numFiles
	}
	logger.Debug("Starting parallel rewrite with %d workers for %d inputs", workers, numFiles)

	jobs := make(chan *fileJob, numFiles)
	results := make(chan *fileResult, numFiles)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go wp.worker(ctx, i, jobs, results, &wg)
	}

	for i := range files {
		jobs <- &fileJob{file: &files[i], index: i}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	runs := make([]*FileRun, numFiles)
	for result := range results {
		runs[result.index] = result.run
		logger.Debug("[%s] %s (worker %d)", result.run.Status, result.run.File.RelativePath, result.workerID)
	}

	return runs
}

// fileJob represents a single input to rewrite
type fileJob struct {
	file  *discovery.DiscoveredFile
	index int
}

// fileResult carries a finished run back to the collector
type fileResult struct {
	run      *FileRun
	index    int
	workerID int
}

// worker is the goroutine that processes rewrite jobs
func (wp *WorkerPool) worker(ctx context.Context, workerID int, jobs <-chan *fileJob, results chan<- *fileResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		var run *FileRun
		if err := ctx.Err(); err != nil {
			run = cancelledRun(job.file, err)
		} else {
			run = wp.rewriter.Rewrite(ctx, job.file)
		}
		results <- &fileResult{
			run:      run,
			index:    job.index,
			workerID: workerID,
		}
	}
}
