package filter

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.batchSize = size
	}
}

// ConcurrentEvaluator implements both Evaluator and BatchEvaluator interfaces
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.workerCount <= 0 {
		e.workerCount = 1
	}
	if e.batchSize <= 0 {
		e.batchSize = 1
	}

	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Evaluate returns the tweets matching filter, in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, tweets []TweetInfo) ([]TweetInfo, error) {
	if len(tweets) == 0 {
		return []TweetInfo{}, nil
	}

	// Small inputs are not worth the hand-off
	if len(tweets) < e.batchSize {
		return e.evaluateSequential(filter, tweets), nil
	}

	return e.evaluateConcurrent(ctx, filter, tweets)
}

// EvaluateBatch evaluates every filter against the same tweets. Filters run
// in parallel, bounded by the worker count.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, tweets []TweetInfo) (map[string][]TweetInfo, error) {
	results := make(map[string][]TweetInfo, len(filters))
	if len(filters) == 0 || len(tweets) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for name, filter := range filters {
		g.Go(func() error {
			matches, err := e.Evaluate(ctx, filter, tweets)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = matches
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// evaluateSequential evaluates a filter against all tweets sequentially
func (e *ConcurrentEvaluator) evaluateSequential(filter CompiledFilter, tweets []TweetInfo) []TweetInfo {
	matches := make([]TweetInfo, 0, len(tweets)/10)
	for _, tweet := range tweets {
		if filter.Evaluate(tweet) {
			matches = append(matches, tweet)
		}
	}
	return matches
}

// evaluateConcurrent splits tweets into chunks evaluated on the worker pool
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, tweets []TweetInfo) ([]TweetInfo, error) {
	chunkSize := max(len(tweets)/e.workerCount, e.batchSize)
	chunks := (len(tweets) + chunkSize - 1) / chunkSize

	// Each chunk writes only its own slot
	results := make([][]TweetInfo, chunks)
	var wg sync.WaitGroup

	for index := range chunks {
		start := index * chunkSize
		chunk := tweets[start:min(start+chunkSize, len(tweets))]

		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			matches := make([]TweetInfo, 0, len(chunk)/10)
			for _, tweet := range chunk {
				if filter.Evaluate(tweet) {
					matches = append(matches, tweet)
				}
			}
			results[index] = matches
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	matches := make([]TweetInfo, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}
