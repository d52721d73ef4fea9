// Package crawler launches the external product crawler and stores its rules.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Placeholders substituted in Config.Args for each run.
const (
	PlaceholderURL         = "{url}"
	PlaceholderDescription = "{description}"
)

var (
	// ErrBusy is returned by Run while another run is in progress.
	ErrBusy = errors.New("crawler run already in progress")
	// ErrStopped is returned by Run when Stop cancelled it.
	ErrStopped = errors.New("crawler run stopped")
)

// Config describes the crawler command.
type Config struct {
	Command       string
	Args          []string
	Dir           string
	RatePerSecond float64
}

// DefaultConfig runs the scrapy product spider once per URL.
func DefaultConfig() Config {
	return Config{
		Command: "scrapy",
		Args: []string{
			"crawl", "product_spider",
			"-a", "url=" + PlaceholderURL,
			"-a", "description=" + PlaceholderDescription,
		},
		RatePerSecond: 1,
	}
}

// RunResult is the captured output of one successful crawl.
type RunResult struct {
	URL    string `json:"url"`
	Output string `json:"output"`
}

// RunError reports the crawl that failed and what it printed.
type RunError struct {
	URL    string
	Output string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("crawl %s: %v", e.URL, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Runner executes crawls one URL at a time. Only one Run is active at once.
type Runner struct {
	cfg     Config
	limiter *rate.Limiter
	logger  *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewRunner creates a runner. A non-positive rate disables pacing.
func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	if cfg.Command == "" {
		def := DefaultConfig()
		cfg.Command = def.Command
		if len(cfg.Args) == 0 {
			cfg.Args = def.Args
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Runner{
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Run crawls each URL in order with the given description. It stops at the first
// failing crawl and returns the results gathered so far with a *RunError.
func (r *Runner) Run(ctx context.Context, urls []string, description string) ([]RunResult, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.cancel = nil
		r.mu.Unlock()
		cancel()
	}()

	results := make([]RunResult, 0, len(urls))
	for _, u := range urls {
		if err := r.limiter.Wait(runCtx); err != nil {
			return results, r.interrupted(ctx, runCtx, u, "", err)
		}

		start := time.Now()
		cmd := exec.CommandContext(runCtx, r.cfg.Command, r.args(u, description)...)
		cmd.Dir = r.cfg.Dir
		cmd.WaitDelay = 2 * time.Second
		out, err := cmd.CombinedOutput()
		if err != nil {
			return results, r.interrupted(ctx, runCtx, u, string(out), err)
		}

		r.logger.Info("crawl finished",
			zap.String("url", u),
			zap.Duration("duration", time.Since(start)),
			zap.Int("output_bytes", len(out)),
		)
		results = append(results, RunResult{URL: u, Output: string(out)})
	}
	return results, nil
}

// interrupted classifies a failed step. A Stop wins over the process error it caused.
func (r *Runner) interrupted(parent, runCtx context.Context, url, output string, err error) error {
	if runCtx.Err() != nil && parent.Err() == nil {
		r.logger.Warn("crawl stopped", zap.String("url", url))
		return &RunError{URL: url, Output: output, Err: ErrStopped}
	}
	r.logger.Error("crawl failed", zap.String("url", url), zap.Error(err))
	return &RunError{URL: url, Output: output, Err: err}
}

// Stop cancels the active run. It reports whether a run was active.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return false
	}
	r.cancel()
	return true
}

func (r *Runner) args(url, description string) []string {
	rep := strings.NewReplacer(PlaceholderURL, url, PlaceholderDescription, description)
	args := make([]string, len(r.cfg.Args))
	for i, a := range r.cfg.Args {
		args[i] = rep.Replace(a)
	}
	return args
}
