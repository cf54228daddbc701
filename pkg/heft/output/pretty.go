package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))
	return nil
}

// formatHeader builds the header box with scan metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	sourceLabel := LabelStyle.Render("Workspace:")
	sourceValue := ValueStyle.Render(r.Source)
	lines = append(lines, fmt.Sprintf("%s %s", sourceLabel, sourceValue))

	var infoParts []string

	thresholdLabel := LabelStyle.Render("Threshold:")
	thresholdValue := ValueStyle.Render(fmt.Sprintf("%d KB", r.ThresholdKB))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", thresholdLabel, thresholdValue))

	scannedLabel := LabelStyle.Render("Measured:")
	scannedValue := ValueStyle.Render(fmt.Sprintf("%s files in %s",
		humanize.Comma(r.Stats.Measured), formatDuration(r.Stats.Duration)))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", scannedLabel, scannedValue))

	lines = append(lines, strings.Join(infoParts, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatTable builds the file table with SIZE, LINES and PATH columns.
func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Rows) == 0 {
		return SuccessStyle.Render("  No files over the threshold\n")
	}

	var sb strings.Builder

	sizeHeader := TableHeaderStyle.Render("SIZE")
	linesHeader := TableHeaderStyle.Render("LINES")
	pathHeader := TableHeaderStyle.Render("PATH")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", sizeHeader, linesHeader, pathHeader))

	maxSizeWidth := 8
	maxLinesWidth := 5
	for _, row := range r.Rows {
		if len(row.Size) > maxSizeWidth {
			maxSizeWidth = len(row.Size)
		}
		if w := len(strconv.Itoa(row.Lines)); w > maxLinesWidth {
			maxLinesWidth = w
		}
	}

	for _, row := range r.Rows {
		sizeStr := SizeStyle.Render(padLeft(row.Size, maxSizeWidth))
		linesStr := ValueStyle.Render(padLeft(strconv.Itoa(row.Lines), maxLinesWidth))
		pathStr := PathStyle.Render(row.Label)
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", sizeStr, linesStr, pathStr))
	}

	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	countLabel := LabelStyle.Render("Oversized:")
	countValue := ValueStyle.Render(humanize.Comma(r.Stats.Oversized))
	parts = append(parts, fmt.Sprintf("%s %s", countLabel, countValue))

	candidatesLabel := LabelStyle.Render("Candidates:")
	candidatesValue := ValueStyle.Render(humanize.Comma(r.Stats.Candidates))
	parts = append(parts, fmt.Sprintf("%s %s", candidatesLabel, candidatesValue))

	totalLabel := LabelStyle.Render("Total:")
	totalValue := SizeStyle.Render(humanize.IBytes(uint64(r.TotalBytes())))
	parts = append(parts, fmt.Sprintf("%s %s", totalLabel, totalValue))

	hint := MutedStyle.Render("Use -o plain for unformatted output")
	parts = append(parts, hint)

	return FooterBox.Render(strings.Join(parts, "  "))
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
