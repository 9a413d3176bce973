// Package report renders operation summaries for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tmsync/internal/app"
	"tmsync/internal/mapping"
)

// DefaultWidth bounds a summary line when the terminal width is unknown.
const DefaultWidth = 100

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

// ConsoleReporter writes human readable summaries. Colours are only
// emitted when out is a terminal.
type ConsoleReporter struct {
	out   io.Writer
	width int

	title   lipgloss.Style
	label   lipgloss.Style
	created lipgloss.Style
	updated lipgloss.Style
	deleted lipgloss.Style
	muted   lipgloss.Style
}

// NewConsoleReporter creates a reporter for out. width <= 0 uses DefaultWidth.
func NewConsoleReporter(out io.Writer, width int) *ConsoleReporter {
	if width <= 0 {
		width = DefaultWidth
	}
	r := lipgloss.NewRenderer(out)
	return &ConsoleReporter{
		out:     out,
		width:   width,
		title:   r.NewStyle().Bold(true),
		label:   r.NewStyle().Foreground(colorMuted).Width(10),
		created: r.NewStyle().Foreground(colorSuccess),
		updated: r.NewStyle().Foreground(colorWarning),
		deleted: r.NewStyle().Foreground(colorError),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Import prints the outcome of one import.
func (c *ConsoleReporter) Import(res *app.ImportResult) {
	r := res.Result
	fmt.Fprintln(c.out, c.title.Render(fmt.Sprintf("Imported %s (%s)", res.Path, res.Kind)))
	c.field("Suite", r.SuiteID)
	if r.SuiteURL != "" {
		suffix := ""
		if res.URLCopied {
			suffix = c.muted.Render(" (copied)")
		}
		c.field("URL", r.SuiteURL+suffix)
	}
	c.field("Section", r.SectionID)
	c.field("Cases", fmt.Sprintf("%s, %s, %s",
		c.created.Render(fmt.Sprintf("%d created", len(r.Created))),
		c.updated.Render(fmt.Sprintf("%d updated", len(r.Updated))),
		c.deleted.Render(fmt.Sprintf("%d deleted", len(r.Deleted)))))

	if len(r.Skipped) > 0 {
		c.field("Skipped", c.updated.Render(fmt.Sprintf("%d without steps", len(r.Skipped))))
	}

	c.keys("+", c.created, r.Created)
	c.keys("-", c.deleted, r.Deleted)
	c.keys("!", c.muted, r.Skipped)
}

// CloseRuns prints the runs closed for one file.
func (c *ConsoleReporter) CloseRuns(res *app.CloseRunsResult) {
	fmt.Fprintln(c.out, c.title.Render(fmt.Sprintf("Closed %d run(s) of suite %s (%s)", len(res.Closed), res.SuiteID, res.Path)))
	for _, run := range res.Closed {
		line := fmt.Sprintf("  %s %s", runewidth.FillRight(run.ID, 8), run.Name)
		fmt.Fprintln(c.out, c.fit(line))
	}
}

func (c *ConsoleReporter) field(name, value string) {
	fmt.Fprintf(c.out, "  %s%s\n", c.label.Render(name), value)
}

func (c *ConsoleReporter) keys(marker string, style lipgloss.Style, keys []mapping.Key) {
	for _, k := range keys {
		line := fmt.Sprintf("    %s %s", marker, describe(k))
		fmt.Fprintln(c.out, style.Render(c.fit(line)))
	}
}

// fit truncates a line to the reporter width, counting display cells.
func (c *ConsoleReporter) fit(line string) string {
	if runewidth.StringWidth(line) <= c.width {
		return line
	}
	return runewidth.Truncate(line, c.width, "…")
}

func describe(k mapping.Key) string {
	if k.Row == "" {
		return k.Scenario
	}
	return fmt.Sprintf("%s [row %s] %s", k.File, k.Row, k.Scenario)
}
