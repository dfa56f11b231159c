package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Evaluator evaluates one claim into a report
type Evaluator interface {
	Evaluate(ctx context.Context, claim string) (*model.Report, error)
}

// ClaimJob evaluates the claim at Index of a batch
type ClaimJob struct {
	Index     int
	Claim     string
	Evaluator Evaluator
}

// Execute runs the evaluation
func (j *ClaimJob) Execute(ctx context.Context) Result {
	report, err := j.Evaluator.Evaluate(ctx, j.Claim)
	return &ClaimResult{Index: j.Index, Claim: j.Claim, Report: report, Error: err}
}

// ClaimResult is the outcome of one claim in a batch
type ClaimResult struct {
	Index  int
	Claim  string
	Report *model.Report
	Error  error
}

// GetError returns the evaluation error, if any
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many claims concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
}

// NewBatchProcessor creates a processor running at most concurrency evaluations at once
func NewBatchProcessor(evaluator Evaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{evaluator: evaluator, concurrency: concurrency}
}

// ProcessClaims evaluates the claims and returns results in input order.
// Claims not started before ctx is cancelled carry ctx's error.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, claim := range claims {
		pool.Submit(&ClaimJob{Index: i, Claim: claim, Evaluator: b.evaluator})
	}

	out := make([]*ClaimResult, len(claims))
	for _, r := range pool.Wait() {
		cr := r.(*ClaimResult)
		out[cr.Index] = cr
	}

	for i, r := range out {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &ClaimResult{Index: i, Claim: claims[i], Error: fmt.Errorf("not evaluated: %w", err)}
		}
	}
	return out
}

// ProcessFile reads claims from a file and evaluates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads one claim per line, skipping blank lines, #
// comments and repeated claims
func ReadClaimsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
