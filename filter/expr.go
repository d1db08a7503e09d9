package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/chirp/cache"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	custom     map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = cache.NewLRU[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.custom, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		custom: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	custom map[string]any
	cache  *cache.LRU[CompiledFilter]
}

// Compile compiles an expression into an executable filter. Unknown
// identifiers are compile errors.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Type-check against the environment of an empty tweet
	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(TweetInfo{}, c.custom)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		custom:     c.custom,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate reports whether the tweet matches. Tweets that fail to evaluate
// do not match.
func (f *exprFilter) Evaluate(tweet TweetInfo) bool {
	ok, err := f.Match(tweet)
	return err == nil && ok
}

// Match runs the program against the tweet
func (f *exprFilter) Match(tweet TweetInfo) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(tweet, f.custom))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, TweetID: tweet.ID, Err: err}
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// addHelperFunctions adds the tweet-independent helpers
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["hoursSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours())
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["hoursAgo"] = func(hours int) time.Time {
		return time.Now().Add(-time.Duration(hours) * time.Hour)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// newEnvironment builds the evaluation environment for one tweet
func newEnvironment(tweet TweetInfo, custom map[string]any) map[string]any {
	env := make(map[string]any, 40)

	addHelperFunctions(env)

	env["hasHashtag"] = createMatchAnyFunc(tweet.Hashtags, "#")
	env["mentions"] = createMatchAnyFunc(tweet.Mentions, "@")

	env["ID"] = tweet.ID
	env["Text"] = tweet.Text
	env["Lang"] = tweet.Lang
	env["Likes"] = tweet.Likes
	env["Retweets"] = tweet.Retweets
	env["Replies"] = tweet.Replies
	env["Quotes"] = tweet.Quotes
	env["CreatedAt"] = tweet.CreatedAt
	env["AuthorUsername"] = tweet.AuthorUsername
	env["AuthorFollowers"] = tweet.AuthorFollowers
	env["IsReply"] = tweet.IsReply
	env["IsRetweet"] = tweet.IsRetweet
	env["IsQuote"] = tweet.IsQuote
	env["HasMedia"] = tweet.HasMedia
	env["HasPoll"] = tweet.HasPoll
	env["Hashtags"] = tweet.Hashtags
	env["Mentions"] = tweet.Mentions

	maps.Copy(env, custom)
	return env
}

// createMatchAnyFunc matches a value case-insensitively with an optional
// leading marker such as # or @ ignored.
func createMatchAnyFunc(values []string, marker string) func(string) bool {
	lower := make([]string, len(values))
	for i, v := range values {
		lower[i] = strings.ToLower(strings.TrimPrefix(v, marker))
	}
	return func(v string) bool {
		return slices.Contains(lower, strings.ToLower(strings.TrimPrefix(v, marker)))
	}
}
