package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true).
			Padding(0, 1)

	featureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#525252", Dark: "#A3A3A3"}).
			Padding(0, 1)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#171717", Dark: "#FAFAFA"}).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// Table renders the summary as a bordered terminal table
type Table struct{}

// NewTable creates a terminal table renderer
func NewTable() *Table {
	return &Table{}
}

// Extension implements Renderer
func (t *Table) Extension() string { return ".txt" }

// Render implements Renderer
func (t *Table) Render(w io.Writer, report *Report) error {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Prosody Feature", "Value").
		StyleFunc(func(r, c int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return headerStyle
			case c == 0:
				return featureStyle
			default:
				return valueStyle
			}
		})

	for _, r := range summaryRows(report.Summary) {
		tbl.Row(r.Feature, r.Value)
	}

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}
