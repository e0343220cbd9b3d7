package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/auto-applier/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxFieldsToShow is the number of filled fields to display per result
	maxFieldsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs a human-readable summary of one attempt outcome.
func (p *Printer) PrintResult(job types.JobTarget, result *types.ApplicationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", result.Status))

	switch result.Status {
	case types.StatusSubmitted:
		sb.WriteString(fmt.Sprintf("Confirm:  %s\n", result.ConfirmationID))
	case types.StatusAwaitingApproval:
		sb.WriteString(fmt.Sprintf("Handle:   %s\n", result.ApprovalHandle))
		if result.ScreenshotRef != "" {
			sb.WriteString(fmt.Sprintf("Snapshot: %s\n", result.ScreenshotRef))
		}
	case types.StatusFailed:
		sb.WriteString(fmt.Sprintf("Reason:   %s\n", result.Reason()))
	}

	if len(result.FilledFields) > 0 {
		sb.WriteString("\nFilled fields:\n")
		count := min(len(result.FilledFields), maxFieldsToShow)
		for i := 0; i < count; i++ {
			f := result.FilledFields[i]
			sb.WriteString(fmt.Sprintf("  • %s = %s\n", f.Key, f.ValueInjected))
		}
		if len(result.FilledFields) > maxFieldsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.FilledFields)-maxFieldsToShow))
		}
	}

	p.printBox("APPLICATION RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the batch-level counters.
func (p *Printer) PrintSummary(summary *types.BatchSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attempted: %d\n", summary.Attempted))
	sb.WriteString(fmt.Sprintf("Succeeded: %d\n", summary.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:    %d", summary.Failed))

	awaiting := summary.Attempted - summary.Succeeded - summary.Failed
	if awaiting > 0 {
		sb.WriteString(fmt.Sprintf("\nAwaiting:  %d", awaiting))
	}

	p.printBox("BATCH SUMMARY", sb.String())
}
