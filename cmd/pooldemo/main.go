package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
)

// scenario is one self-contained demonstration. run writes its narrative
// to out and returns a one-line outcome for the summary table.
type scenario struct {
	name        string
	description string
	run         func(ctx context.Context, cfg demoConfig, out io.Writer) (string, error)
}

type demoConfig struct {
	workers int
	items   int
	logger  *slog.Logger
	quiet   bool
}

var scenarios = []scenario{
	{"queues", "raw task/result queues with STOP sentinels", runRawQueues},
	{"map", "blocking map of mul over 0..N-1", runMap},
	{"map-failure", "blocking map where one item divides by zero", runMapFailure},
	{"ordered", "ordered stream that fails at position 5 and carries on", runOrdered},
	{"poll", "polling a slow task with a short timeout", runPoll},
	{"unordered", "unordered stream with a progress bar", runUnordered},
}

func main() {
	workersFlag := flag.Int("workers", 4, "Number of workers in each pool")
	itemsFlag := flag.Int("items", 10, "Number of items per batch scenario")
	scenarioFlag := flag.String("scenario", "", "Run a single scenario ("+scenarioNames()+"). If empty, runs all")
	verboseFlag := flag.Bool("v", false, "Log pool lifecycle events to stderr")
	quietFlag := flag.Bool("quiet", false, "Hide progress bars")
	flag.Parse()

	if *workersFlag <= 0 || *itemsFlag <= 0 {
		_, _ = red.Println("Error: -workers and -items must be positive")
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	selected := scenarios
	if *scenarioFlag != "" {
		i := slices.IndexFunc(scenarios, func(s scenario) bool { return s.name == *scenarioFlag })
		if i < 0 {
			_, _ = red.Printf("Error: unknown scenario '%s'\n", *scenarioFlag)
			fmt.Println("Available scenarios:", scenarioNames())
			os.Exit(2)
		}
		selected = scenarios[i : i+1]
	}

	cfg := demoConfig{
		workers: *workersFlag,
		items:   *itemsFlag,
		logger:  logger,
		quiet:   *quietFlag,
	}

	printBanner(cfg)
	results := runAll(context.Background(), cfg, selected, os.Stdout)
	renderSummary(os.Stdout, results)

	for _, r := range results {
		if !r.ok {
			os.Exit(1)
		}
	}
}

type scenarioResult struct {
	name     string
	outcome  string
	duration time.Duration
	ok       bool
}

func runAll(ctx context.Context, cfg demoConfig, selected []scenario, out io.Writer) []scenarioResult {
	results := make([]scenarioResult, 0, len(selected))
	for _, s := range selected {
		printSectionHeader(out, strings.ToUpper(s.name), s.description)

		start := time.Now()
		outcome, err := s.run(ctx, cfg, out)
		r := scenarioResult{name: s.name, outcome: outcome, duration: time.Since(start), ok: err == nil}
		if err != nil {
			r.outcome = err.Error()
			_, _ = red.Fprintf(out, "Error in %s: %v\n", s.name, err)
			cfg.logger.Error("pooldemo: scenario failed", "scenario", s.name, "error", err)
		}
		results = append(results, r)
	}
	return results
}

func scenarioNames() string {
	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.name
	}
	return strings.Join(names, ", ")
}
