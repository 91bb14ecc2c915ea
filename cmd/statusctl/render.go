package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"shipment-status/internal/features/status/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
)

// normalizedRow is one normalize result together with its input.
type normalizedRow struct {
	Raw    string        `json:"raw"`
	Result domain.Result `json:"result"`
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	badgeColors = map[domain.ColorClass]lipgloss.Color{
		domain.ColorSuccess: lipgloss.Color("2"),
		domain.ColorWarning: lipgloss.Color("3"),
		domain.ColorInfo:    lipgloss.Color("4"),
		domain.ColorNeutral: lipgloss.Color("8"),
		domain.ColorDanger:  lipgloss.Color("1"),
	}
)

// render writes v as json or yaml, or the output of tableFn for the table format.
func render(out io.Writer, format string, v any, tableFn func() string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = out.Write(b)
		return err
	default:
		_, err := fmt.Fprintln(out, tableFn())
		return err
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func badge(r domain.Result) string {
	return lipgloss.NewStyle().Foreground(badgeColors[r.ColorClass]).Render(r.DisplayLabel)
}

func normalizeTable(rows []normalizedRow) string {
	t := newTable("RAW", "STAGE", "PROGRESS", "COLOR")
	for _, row := range rows {
		t.Row(strconv.Quote(row.Raw), badge(row.Result), strconv.Itoa(row.Result.ProgressIndex), string(row.Result.ColorClass))
	}
	return t.String()
}

func stagesTable(stages []domain.Result) string {
	t := newTable("PROGRESS", "STAGE", "COLOR", "HAPPY PATH", "TERMINAL")
	for _, s := range stages {
		t.Row(strconv.Itoa(s.ProgressIndex), badge(s), string(s.ColorClass), strconv.FormatBool(s.Stage.IsHappyPath()), strconv.FormatBool(s.Stage.IsTerminal()))
	}
	return t.String()
}

func unmappedTable(statuses []domain.UnmappedStatus) string {
	t := newTable("STATUS", "SEEN")
	for _, s := range statuses {
		t.Row(s.Canonical, formatCount(s.Count))
	}
	return t.String()
}
