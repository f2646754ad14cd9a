package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/mcp-probe/internal/common"
	"github.com/bobmcallan/mcp-probe/internal/tools"
)

// SuiteResult is the outcome of a full validation run.
type SuiteResult struct {
	TotalTools             int           `json:"total_tools"`
	PassedTools            int           `json:"passed_tools"`
	FailedTools            int           `json:"failed_tools"`
	ToolResults            []ToolResult  `json:"tool_results"`
	Duration               time.Duration `json:"duration"`
	OverallComplianceScore float64       `json:"overall_compliance_score"`
}

// Runner orchestrates discovery, per-tool validation, benchmarking,
// and continuous validation.
type Runner struct {
	validator *Validator
	discovery *Discovery
	logger    *common.Logger
}

// NewRunner creates a runner at the given validation level.
func NewRunner(caller Caller, level Level, logger *common.Logger) *Runner {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Runner{
		validator: NewValidator(caller, level),
		discovery: NewDiscovery(caller),
		logger:    logger,
	}
}

// Discovery exposes the runner's discovery component.
func (r *Runner) Discovery() *Discovery {
	return r.discovery
}

// RunFull validates every discovered tool, optionally filtered by name.
func (r *Runner) RunFull(ctx context.Context, filter []string) (SuiteResult, error) {
	start := time.Now()

	descriptors, err := r.discovery.Discover(ctx, true)
	if err != nil {
		return SuiteResult{}, err
	}

	if len(filter) > 0 {
		keep := make(map[string]bool, len(filter))
		for _, name := range filter {
			keep[name] = true
		}
		filtered := descriptors[:0]
		for _, desc := range descriptors {
			if keep[desc.Name] {
				filtered = append(filtered, desc)
			}
		}
		descriptors = filtered
	}

	r.logger.Info().Int("tools", len(descriptors)).Msg("starting validation suite")

	results := make([]ToolResult, 0, len(descriptors))
	passed := 0
	var scoreSum float64
	for _, desc := range descriptors {
		result := r.validator.ValidateTool(ctx, desc)
		results = append(results, result)
		scoreSum += result.ComplianceScore
		if result.Passed {
			passed++
			r.logger.Info().Str("tool", result.ToolName).Msg("tool validation passed")
		} else {
			r.logger.Warn().Str("tool", result.ToolName).Msg("tool validation failed")
		}
	}

	overallScore := 0.0
	if len(results) > 0 {
		overallScore = scoreSum / float64(len(results))
	}

	suite := SuiteResult{
		TotalTools:             len(results),
		PassedTools:            passed,
		FailedTools:            len(results) - passed,
		ToolResults:            results,
		Duration:               time.Since(start),
		OverallComplianceScore: overallScore,
	}

	r.logger.Info().
		Int("passed", suite.PassedTools).
		Int("total", suite.TotalTools).
		Msg("validation suite complete")
	return suite, nil
}

// RunTool validates a single named tool.
func (r *Runner) RunTool(ctx context.Context, name string) (ToolResult, error) {
	desc, found, err := r.discovery.ToolDetails(ctx, name)
	if err != nil {
		return ToolResult{}, err
	}
	if !found {
		return ToolResult{}, fmt.Errorf("tool %q not found", name)
	}
	return r.validator.ValidateTool(ctx, desc), nil
}

// BenchmarkStats summarizes repeated validation of a single tool.
type BenchmarkStats struct {
	Iterations   int           `json:"iterations"`
	SuccessCount int           `json:"success_count"`
	SuccessRate  float64       `json:"success_rate"`
	AvgDuration  time.Duration `json:"avg_duration"`
	MinDuration  time.Duration `json:"min_duration"`
	MaxDuration  time.Duration `json:"max_duration"`
}

// Benchmark validates every tool repeatedly and reports timing stats.
func (r *Runner) Benchmark(ctx context.Context, iterations int) (map[string]BenchmarkStats, error) {
	if iterations <= 0 {
		iterations = 1
	}

	descriptors, err := r.discovery.Discover(ctx, true)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]BenchmarkStats, len(descriptors))
	for _, desc := range descriptors {
		r.logger.Info().Str("tool", desc.Name).Int("iterations", iterations).Msg("benchmarking tool")
		stats[desc.Name] = r.benchmarkTool(ctx, desc, iterations)
	}
	return stats, nil
}

func (r *Runner) benchmarkTool(ctx context.Context, desc tools.Descriptor, iterations int) BenchmarkStats {
	s := BenchmarkStats{Iterations: iterations}

	var total time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		result := r.validator.ValidateTool(ctx, desc)
		elapsed := time.Since(start)

		total += elapsed
		if result.Passed {
			s.SuccessCount++
		}
		if s.MinDuration == 0 || elapsed < s.MinDuration {
			s.MinDuration = elapsed
		}
		if elapsed > s.MaxDuration {
			s.MaxDuration = elapsed
		}
	}

	s.AvgDuration = total / time.Duration(iterations)
	s.SuccessRate = float64(s.SuccessCount) / float64(iterations) * 100
	return s
}

// RunContinuous re-runs the full suite at a fixed interval until the
// context is cancelled or maxIterations completes. maxIterations <= 0
// means unbounded.
func (r *Runner) RunContinuous(ctx context.Context, interval time.Duration, maxIterations int) error {
	r.logger.Info().Str("interval", interval.String()).Msg("starting continuous validation")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for iteration := 1; maxIterations <= 0 || iteration <= maxIterations; iteration++ {
		suite, err := r.RunFull(ctx, nil)
		if err != nil {
			r.logger.Warn().Int("iteration", iteration).Str("error", err.Error()).Msg("validation iteration failed")
		} else {
			r.logger.Info().
				Int("iteration", iteration).
				Int("passed", suite.PassedTools).
				Int("total", suite.TotalTools).
				Msg("validation iteration complete")
		}

		if maxIterations > 0 && iteration == maxIterations {
			break
		}

		select {
		case <-ctx.Done():
			r.logger.Info().Msg("continuous validation stopped")
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
