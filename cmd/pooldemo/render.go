package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

func printBanner(cfg demoConfig) {
	fmt.Println("╔═══════════════════════════════════════════════════════╗")
	fmt.Println("║   Task Pool - Dispatch Modes Demo                     ║")
	fmt.Println("╚═══════════════════════════════════════════════════════╝")
	fmt.Println()
	_, _ = bold.Println("⚙️  Configuration:")
	fmt.Printf("   • Workers: %d\n", cfg.workers)
	fmt.Printf("   • Items per batch: %d\n", cfg.items)
}

func printSectionHeader(out io.Writer, title string, descriptions ...string) {
	fmt.Fprintln(out)
	_, _ = bold.Fprintln(out, "═══════════════════════════════════════════════════════════")
	_, _ = bold.Fprintln(out, title)
	_, _ = bold.Fprintln(out, "═══════════════════════════════════════════════════════════")
	for _, desc := range descriptions {
		fmt.Fprintln(out, desc)
	}
	fmt.Fprintln(out)
}

// renderSummary prints one row per scenario and a pass count footer.
func renderSummary(out io.Writer, results []scenarioResult) {
	printSectionHeader(out, "📊 SUMMARY")

	table := tablewriter.NewWriter(out)
	table.Header("Scenario", "Outcome", "Time", "Status")

	passed := 0
	for _, r := range results {
		status := "ok"
		if r.ok {
			passed++
		} else {
			status = "FAILED"
		}
		_ = table.Append(r.name, r.outcome, r.duration.Round(time.Millisecond).String(), status)
	}

	if err := table.Render(); err != nil {
		_, _ = red.Fprintln(out, "Error in rendering summary table")
	}

	fmt.Fprintln(out)
	if passed == len(results) {
		_, _ = green.Fprintf(out, "✅ All %d scenarios completed\n", len(results))
		return
	}
	_, _ = red.Fprintf(out, "⚠️  %d/%d scenarios completed\n", passed, len(results))
}

func makeProgressBar(total int, description string, quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.DefaultSilent(int64(total), description)
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
