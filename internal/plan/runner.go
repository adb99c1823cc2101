package plan

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/agentprobe/agentprobe/internal/weni"
)

// Invoker is the slice of the target the runner needs.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (*weni.Result, error)
}

// CaseResult captures the outcome of one case.
type CaseResult struct {
	Name     string
	Response string
	Passed   bool
	Err      error
	Elapsed  time.Duration
}

// Runner executes plan cases sequentially. A fresh target is built per case
// so every case gets its own contact URN and its own connection; nothing
// leaks between cases.
type Runner struct {
	NewTarget func() (Invoker, error)
}

// Run executes every case in order and never aborts the plan on a case
// failure; a case error is recorded as that case's result.
func (r *Runner) Run(ctx context.Context, p *Plan) []CaseResult {
	results := make([]CaseResult, 0, len(p.Cases))
	for _, c := range p.Cases {
		results = append(results, r.runCase(ctx, c))
	}
	return results
}

func (r *Runner) runCase(ctx context.Context, c Case) CaseResult {
	started := time.Now()

	target, err := r.NewTarget()
	if err != nil {
		return CaseResult{Name: c.Name, Err: err, Elapsed: time.Since(started)}
	}

	res, err := target.Invoke(ctx, c.Prompt)
	elapsed := time.Since(started)
	if err != nil {
		slog.Warn("Plan case failed", "case", c.Name, "error", err)
		return CaseResult{Name: c.Name, Err: err, Elapsed: elapsed}
	}

	passed := c.Expected == "" || strings.Contains(res.Response, c.Expected)
	return CaseResult{
		Name:     c.Name,
		Response: res.Response,
		Passed:   passed,
		Elapsed:  elapsed,
	}
}

// Failed counts cases that errored or missed their expectation.
func Failed(results []CaseResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil || !r.Passed {
			n++
		}
	}
	return n
}
