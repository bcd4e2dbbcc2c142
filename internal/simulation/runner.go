package simulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/pricing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status classifies one simulation case.
type Status string

const (
	StatusPass  Status = "pass"
	StatusWarn  Status = "warn"
	StatusError Status = "error"
)

// CaseResult is the outcome of one combination. TotalPrice is nil exactly
// when Status is StatusError.
type CaseResult struct {
	Selections Selections          `json:"selections"`
	Status     Status              `json:"resultStatus"`
	TotalPrice *float64            `json:"totalPrice"`
	Violations []catalog.Violation `json:"violations,omitempty"`
	Breakdown  *pricing.Breakdown  `json:"breakdown,omitempty"`
	Message    string              `json:"message,omitempty"`
}

// RunResult aggregates a run. Total == Passed+Warned+Errored == len(Cases).
type RunResult struct {
	RunID   string       `json:"runId"`
	Cases   []CaseResult `json:"cases"`
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Warned  int          `json:"warned"`
	Errored int          `json:"errored"`
}

// CaseEvaluator classifies one combination.
type CaseEvaluator interface {
	Evaluate(sel Selections) CaseResult
}

// CaseEvaluatorFunc adapts a function to CaseEvaluator.
type CaseEvaluatorFunc func(sel Selections) CaseResult

// Evaluate calls f.
func (f CaseEvaluatorFunc) Evaluate(sel Selections) CaseResult {
	return f(sel)
}

// RunOptions configures RunCases.
type RunOptions struct {
	// OnProgress is called with (done, total) every ProgressInterval cases
	// and once more at the end. It may be nil.
	OnProgress func(current, total int)
	Logger     *zap.Logger
}

// RunCases evaluates every combination in order. The context is checked at
// every progress interval; on cancellation the cases run so far are returned
// together with the context error.
func RunCases(ctx context.Context, combos []Selections, evaluator CaseEvaluator, opts RunOptions) (RunResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	result := RunResult{
		RunID: uuid.NewString(),
		Cases: make([]CaseResult, 0, len(combos)),
	}
	total := len(combos)
	lastReported := 0

	for i, combo := range combos {
		if i%ProgressInterval == 0 {
			if err := ctx.Err(); err != nil {
				logger.Info("simulation cancelled",
					zap.String("op", "simulation.RunCases"),
					zap.String("runId", result.RunID),
					zap.Int("done", i),
					zap.Int("total", total),
				)
				return result, fmt.Errorf("simulation cancelled after %d of %d cases: %w", i, total, err)
			}
		}

		c := normalize(evaluator.Evaluate(combo), combo)
		result.add(c)
		logger.Debug("case evaluated",
			zap.String("op", "simulation.RunCases"),
			zap.Int("case", i+1),
			zap.String("status", string(c.Status)),
		)

		if opts.OnProgress != nil && (i+1)%ProgressInterval == 0 {
			opts.OnProgress(i+1, total)
			lastReported = i + 1
		}
	}
	if opts.OnProgress != nil && total > 0 && lastReported != total {
		opts.OnProgress(total, total)
	}

	logger.Info("simulation finished",
		zap.String("op", "simulation.RunCases"),
		zap.String("runId", result.RunID),
		zap.Int("total", result.Total),
		zap.Int("passed", result.Passed),
		zap.Int("warned", result.Warned),
		zap.Int("errored", result.Errored),
	)
	return result, nil
}

// normalize enforces the case invariants: an unknown status is an error, an
// error has no price and a pass or warn without a price is an error.
func normalize(c CaseResult, combo Selections) CaseResult {
	if c.Selections == nil {
		c.Selections = combo
	}
	switch c.Status {
	case StatusPass, StatusWarn:
		if c.TotalPrice == nil {
			c.Status = StatusError
			c.Breakdown = nil
			if c.Message == "" {
				c.Message = "no price resolved"
			}
		}
	case StatusError:
		c.TotalPrice = nil
		c.Breakdown = nil
	default:
		c.Message = fmt.Sprintf("evaluator returned unknown status %q", string(c.Status))
		c.Status = StatusError
		c.TotalPrice = nil
		c.Breakdown = nil
	}
	return c
}

func (r *RunResult) add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	r.Total++
	switch c.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warned++
	default:
		r.Errored++
	}
}

// RunCasesParallel splits combos into contiguous shards, runs each shard with
// RunCases on its own goroutine and merges the shards back in input order.
// OnProgress is only called once, after every shard has finished. A shard
// count below two runs sequentially. When the run is cancelled the result
// holds the contiguous prefix of finished cases; later shards that ran past an
// unfinished one are dropped.
func RunCasesParallel(ctx context.Context, combos []Selections, evaluator CaseEvaluator, shards int, opts RunOptions) (RunResult, error) {
	if shards < 2 || len(combos) < 2 {
		return RunCases(ctx, combos, evaluator, opts)
	}
	if shards > len(combos) {
		shards = len(combos)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	size := (len(combos) + shards - 1) / shards
	parts := make([]RunResult, shards)
	want := make([]int, shards)
	g, gctx := errgroup.WithContext(ctx)
	for s := 0; s < shards; s++ {
		lo := s * size
		if lo >= len(combos) {
			break
		}
		hi := lo + size
		if hi > len(combos) {
			hi = len(combos)
		}
		s := s
		want[s] = hi - lo
		g.Go(func() error {
			part, err := RunCases(gctx, combos[lo:hi], evaluator, RunOptions{Logger: logger.With(zap.Int("shard", s))})
			parts[s] = part
			return err
		})
	}
	err := g.Wait()

	merged := RunResult{RunID: uuid.NewString(), Cases: make([]CaseResult, 0, len(combos))}
	for s, part := range parts {
		for _, c := range part.Cases {
			merged.add(c)
		}
		if len(part.Cases) < want[s] {
			break
		}
	}
	if err != nil {
		return merged, err
	}
	if opts.OnProgress != nil {
		opts.OnProgress(merged.Total, len(combos))
	}
	logger.Info("parallel simulation finished",
		zap.String("op", "simulation.RunCasesParallel"),
		zap.String("runId", merged.RunID),
		zap.Int("shards", shards),
		zap.Int("total", merged.Total),
	)
	return merged, nil
}
