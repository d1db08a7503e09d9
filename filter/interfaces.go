package filter

import (
	"context"
)

// Filter defines the basic interface for tweet filters
type Filter interface {
	// Evaluate checks if a tweet matches the filter criteria
	Evaluate(tweet TweetInfo) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the evaluation error kept
	Match(tweet TweetInfo) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates filters against tweets
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, tweets []TweetInfo) ([]TweetInfo, error)
}

// BatchEvaluator evaluates multiple filters concurrently
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, tweets []TweetInfo) (map[string][]TweetInfo, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// WorkerPool defines the interface for concurrent work execution
type WorkerPool interface {
	// Submit submits work to the pool
	Submit(work func()) error

	// Stop gracefully stops the worker pool
	Stop(ctx context.Context) error
}
