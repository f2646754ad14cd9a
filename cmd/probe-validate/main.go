package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bobmcallan/mcp-probe/internal/common"
	"github.com/bobmcallan/mcp-probe/internal/config"
	"github.com/bobmcallan/mcp-probe/internal/dispatch"
	"github.com/bobmcallan/mcp-probe/internal/tools"
	"github.com/bobmcallan/mcp-probe/internal/validation"
)

// formatList collects repeated -format flags.
type formatList []string

func (f *formatList) String() string { return strings.Join(*f, ",") }

func (f *formatList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	var formats formatList
	tool := flag.String("tool", "", "Validate a single tool by name")
	level := flag.String("level", "standard", "Validation level: basic, standard, strict")
	flag.Var(&formats, "format", "Report format: console, json, markdown, html (repeatable)")
	output := flag.String("output", "validation_reports", "Report output directory")
	benchmark := flag.Bool("benchmark", false, "Run performance benchmarks instead of validation")
	continuous := flag.Bool("continuous", false, "Run validation continuously")
	interval := flag.Duration("interval", time.Minute, "Interval between continuous runs")
	maxIterations := flag.Int("max-iterations", 0, "Max continuous iterations (0 = unbounded)")
	configFile := flag.String("config", "probe.toml", "Path to config file")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewSilentLogger()
	if *verbose {
		logger = common.NewLoggerWithOutput("debug", os.Stderr)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registry error: %v\n", err)
		os.Exit(1)
	}

	dispatcher := dispatch.New(registry, cfg.Server.Name, common.GetVersion(), logger)
	runner := validation.NewRunner(dispatcher, validation.ParseLevel(*level), logger)

	ctx := context.Background()

	if *benchmark {
		runBenchmark(ctx, runner)
		return
	}

	if *continuous {
		if err := runner.RunContinuous(ctx, *interval, *maxIterations); err != nil {
			fmt.Fprintf(os.Stderr, "continuous validation error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var filter []string
	if *tool != "" {
		filter = []string{*tool}
	}

	suite, err := runner.RunFull(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation error: %v\n", err)
		os.Exit(1)
	}
	if *tool != "" && suite.TotalTools == 0 {
		fmt.Fprintf(os.Stderr, "tool %q not found\n", *tool)
		os.Exit(1)
	}

	reporter := validation.NewReporter(*output)
	files, err := reporter.Generate(suite, formats)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report error: %v\n", err)
		os.Exit(1)
	}
	for format, path := range files {
		fmt.Printf("Report (%s): %s\n", format, path)
	}

	if suite.FailedTools > 0 {
		os.Exit(1)
	}
}

func runBenchmark(ctx context.Context, runner *validation.Runner) {
	stats, err := runner.Benchmark(ctx, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("PERFORMANCE BENCHMARK")
	fmt.Println(strings.Repeat("-", 60))
	for name, s := range stats {
		fmt.Printf("%-20s success %5.1f%%  avg %-10s min %-10s max %s\n",
			name, s.SuccessRate,
			s.AvgDuration.Round(time.Microsecond),
			s.MinDuration.Round(time.Microsecond),
			s.MaxDuration.Round(time.Microsecond))
	}
}

func buildRegistry(cfg *config.Config) (*tools.Registry, error) {
	toolset := tools.NewToolset(cfg.Tools.Root)

	available := map[string]tools.Builtin{}
	for _, b := range toolset.Builtins() {
		available[b.Descriptor.Name] = b
	}

	registry := tools.NewRegistry()
	for _, name := range cfg.Tools.Enabled {
		b, ok := available[name]
		if !ok {
			continue
		}
		if err := registry.Register(b.Descriptor, b.Handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
