package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"revshare/application/ports"
	"revshare/application/reports"
	"revshare/domain/core/valueobjects"
)

const (
	separatorWidth = 70
	currencySymbol = "¥"
)

// TextPresenter renders reports as plain-text tables on a writer,
// one section per concern the way the reports are read: header, rows,
// totals, verdict.
type TextPresenter struct {
	out io.Writer
}

// NewTextPresenter creates a new text presenter. A nil writer renders
// to standard output.
func NewTextPresenter(out io.Writer) *TextPresenter {
	if out == nil {
		out = os.Stdout
	}
	return &TextPresenter{out: out}
}

// PresentDistribution renders a distribution run result
func (p *TextPresenter) PresentDistribution(ctx context.Context, report *reports.DistributionReport) error {
	var b strings.Builder

	writeHeader(&b, "Revenue Distribution")
	fmt.Fprintf(&b, "trigger task:  %s\n", report.TriggerTask)
	fmt.Fprintf(&b, "executor:      %s\n", report.TriggerExecutor)
	fmt.Fprintf(&b, "total revenue: %s\n", money(report.TotalRevenue))
	fmt.Fprintf(&b, "graph:         %s\n", report.GraphFingerprint)

	writeUserSummary(&b, report.UserSummaries, report.TotalRevenue)
	writeLevels(&b, report.Levels)
	writeConservation(&b, report.Conserved, report.TotalRevenue)
	fmt.Fprintf(&b, "\n%d allocations across %d users\n", report.Stats.TotalAllocations, report.Stats.TotalUsers)

	_, err := io.WriteString(p.out, b.String())
	return err
}

// PresentAPIRevenue renders an API revenue run result
func (p *TextPresenter) PresentAPIRevenue(ctx context.Context, report *reports.APIRevenueReport) error {
	var b strings.Builder

	writeHeader(&b, "API Revenue Distribution")
	fmt.Fprintf(&b, "revenue per call: %s\n", money(report.RevenuePerCall))
	fmt.Fprintf(&b, "total API calls:  %d\n", report.TotalAPICalls)
	fmt.Fprintf(&b, "total revenue:    %s\n", money(report.TotalRevenue))
	fmt.Fprintf(&b, "graph:            %s\n", report.GraphFingerprint)

	fmt.Fprintf(&b, "\n%-36s %-14s %8s %12s\n", "Task", "Executor", "Calls", "Revenue")
	b.WriteString(strings.Repeat("-", separatorWidth) + "\n")
	for _, task := range report.Tasks {
		fmt.Fprintf(&b, "%-36s %-14s %8d %12s\n",
			clip(task.Task, 36), task.Executor, task.APICallCount, money(task.TotalRevenue))
	}

	writeUserSummary(&b, report.UserSummaries, report.TotalRevenue)
	writeLevels(&b, report.Levels)
	writeConservation(&b, report.Conserved, report.TotalRevenue)
	fmt.Fprintf(&b, "\n%d allocations across %d users from %d API tasks\n",
		report.Stats.TotalAllocations, report.Stats.TotalUsers, report.Stats.APITaskCount)

	_, err := io.WriteString(p.out, b.String())
	return err
}

// PresentWeights renders the weight leaderboard
func (p *TextPresenter) PresentWeights(ctx context.Context, report *reports.WeightReport) error {
	var b strings.Builder

	writeHeader(&b, "User Weight Leaderboard")
	fmt.Fprintf(&b, "%4s  %-20s %6s %10s %10s %12s\n", "Rank", "User", "Tasks", "Citations", "Share", "Weight")
	b.WriteString(strings.Repeat("-", separatorWidth) + "\n")

	rank := 1
	if report.Page != nil {
		rank = report.Page.Offset + 1
	}
	for i, row := range report.Rows {
		fmt.Fprintf(&b, "%4d  %-20s %6d %10d %9s%% %12s\n",
			rank+i, clip(row.User, 20), row.TaskCount, row.TotalCitations,
			row.NormalizedWeight.StringFixed(2), row.RawWeight.StringFixed(4))
	}
	b.WriteString(strings.Repeat("-", separatorWidth) + "\n")
	fmt.Fprintf(&b, "%4s  %-20s %6d %10d %10s %12s\n", "", "Total",
		report.Summary.TotalTasks, report.Summary.TotalCitations, "",
		report.Summary.TotalWeight.StringFixed(4))

	for _, row := range report.Rows {
		if len(row.Tasks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%s%% of total weight)\n", row.User, row.NormalizedWeight.StringFixed(2))
		for i, task := range row.Tasks {
			fmt.Fprintf(&b, "  %d. %s (%d citations, weight %s)\n",
				i+1, clip(task.Title, 50), task.Citations, task.Weight.StringFixed(4))
		}
	}

	if report.Page != nil && report.Page.Total > len(report.Rows) {
		fmt.Fprintf(&b, "\nshowing %d of %d users\n", len(report.Rows), report.Page.Total)
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

// PresentCitationStats renders the citation analysis
func (p *TextPresenter) PresentCitationStats(ctx context.Context, report *reports.CitationStatsReport) error {
	var b strings.Builder

	writeHeader(&b, "Citation Analysis")
	fmt.Fprintf(&b, "tasks:     %d\n", report.TotalTasks)
	fmt.Fprintf(&b, "citations: %d\n", report.TotalCitations)
	fmt.Fprintf(&b, "users:     %d\n", report.TotalUsers)
	fmt.Fprintf(&b, "graph:     %s\n", report.GraphFingerprint)

	b.WriteString("\nExecutor coverage:\n")
	fmt.Fprintf(&b, "  with executor:    %d (%s)\n", report.Coverage.WithExecutor,
		percentage(report.Coverage.WithExecutor, report.TotalTasks))
	fmt.Fprintf(&b, "  without executor: %d (%s)\n", report.Coverage.WithoutExecutor,
		percentage(report.Coverage.WithoutExecutor, report.TotalTasks))

	b.WriteString("\nCitation structure:\n")
	fmt.Fprintf(&b, "  root tasks:  %d\n", report.RootNodes)
	fmt.Fprintf(&b, "  child tasks: %d\n", report.ChildNodes)

	if len(report.TopCited) > 0 {
		b.WriteString("\nMost cited:\n")
		for i, row := range report.TopCited {
			fmt.Fprintf(&b, "  %2d. %-40s cited %d times (%s)\n",
				i+1, clip(row.Title, 40), row.Count, row.Executor)
		}
	}

	if len(report.TopExecutors) > 0 {
		b.WriteString("\nTasks per executor:\n")
		for i, row := range report.TopExecutors {
			fmt.Fprintf(&b, "  %2d. %-20s %d tasks\n", i+1, clip(row.User, 20), row.TaskCount)
		}
	}

	fmt.Fprintf(&b, "\nmax citation chain depth: %d\n", report.MaxChainDepth)
	for _, chain := range report.Chains {
		b.WriteString("\n")
		for depth, link := range chain.Links {
			indent := strings.Repeat("  ", depth)
			if depth == 0 {
				fmt.Fprintf(&b, "  %s%s (%s)\n", indent, clip(link.Title, 40), link.Executor)
				continue
			}
			fmt.Fprintf(&b, "  %s└─ %s (%s)\n", indent, clip(link.Title, 40), link.Executor)
		}
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

func writeHeader(b *strings.Builder, title string) {
	b.WriteString(strings.Repeat("=", separatorWidth) + "\n")
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", separatorWidth) + "\n")
}

func writeUserSummary(b *strings.Builder, rows []reports.UserSummaryRow, total valueobjects.Money) {
	fmt.Fprintf(b, "\n%-20s %12s %12s %12s %6s\n", "User", "Direct", "Propagated", "Total", "Tasks")
	b.WriteString(strings.Repeat("-", separatorWidth) + "\n")
	for _, row := range rows {
		fmt.Fprintf(b, "%-20s %12s %12s %12s %6d\n",
			clip(row.UserID, 20), money(row.Direct), money(row.Propagation), money(row.Total), row.Tasks)
	}
	b.WriteString(strings.Repeat("-", separatorWidth) + "\n")
	fmt.Fprintf(b, "%-20s %12s %12s %12s\n", "Total", "", "", money(total))
}

func writeLevels(b *strings.Builder, levels []reports.LevelSummaryRow) {
	if len(levels) == 0 {
		return
	}
	b.WriteString("\nBy propagation level:\n")
	for _, level := range levels {
		name := "direct"
		if level.Level > 0 {
			name = fmt.Sprintf("level %d", level.Level)
		}
		fmt.Fprintf(b, "  %s: %d allocations, %s\n", name, level.Count, money(level.Total))
	}
}

func writeConservation(b *strings.Builder, conserved bool, total valueobjects.Money) {
	if conserved {
		fmt.Fprintf(b, "\nconservation check passed: %s fully distributed\n", money(total))
		return
	}
	fmt.Fprintf(b, "\nWARNING: distributed amounts do not sum to %s\n", money(total))
}

func money(amount valueobjects.Money) string {
	return currencySymbol + amount.String()
}

func percentage(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

// clip shortens overlong names so table columns stay aligned
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

var _ ports.ReportPresenter = (*TextPresenter)(nil)
