// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/threatwatch/pkg/types"
)

// Format names an output rendering.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use csv, json, yaml, or table", s)
	}
}

// Ext returns the filename extension for f.
func (f Format) Ext() string {
	switch f {
	case FormatTable:
		return "txt"
	default:
		return string(f)
	}
}

// Row is the flat shape shared by the JSON and YAML renderings, so undated
// records serialize as an empty string rather than a zero timestamp.
type Row struct {
	Date   string `json:"date" yaml:"date"`
	Title  string `json:"title" yaml:"title"`
	Link   string `json:"link" yaml:"link"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Rows flattens records. Source is left empty unless withSource is set.
func Rows(records []types.Record, withSource bool) []Row {
	out := make([]Row, len(records))
	for i, r := range records {
		out[i] = Row{Date: r.DateString(), Title: r.Title, Link: r.Link}
		if withSource {
			out[i].Source = r.Source
		}
	}
	return out
}

// JSON writes records as an indented JSON array.
func JSON(w io.Writer, records []types.Record, withSource bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Rows(records, withSource))
}

// YAML writes records as a YAML sequence.
func YAML(w io.Writer, records []types.Record, withSource bool) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(Rows(records, withSource))
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

const maxTitleWidth = 70

// Table writes a bordered terminal table. Long titles are truncated.
func Table(w io.Writer, records []types.Record, withSource bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Header(withSource)...).
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range records {
		cells := []string{r.DateString(), truncate(r.Title, maxTitleWidth), r.Link}
		if withSource {
			cells = append(cells, r.Source)
		}
		t.Row(cells...)
	}

	_, err := fmt.Fprintf(w, "%s\n%d results\n", t.Render(), len(records))
	return err
}

// Write renders records in format f.
func Write(w io.Writer, f Format, records []types.Record, withSource bool) error {
	switch f {
	case FormatCSV:
		return CSV(w, records, withSource)
	case FormatJSON:
		return JSON(w, records, withSource)
	case FormatYAML:
		return YAML(w, records, withSource)
	case FormatTable:
		return Table(w, records, withSource)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Filename returns "{keyword}_{category}.{ext}" with the keyword made safe
// for a file name.
func Filename(keyword, categoryID, ext string) string {
	kw := strings.Join(strings.Fields(keyword), "_")
	kw = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, kw)
	kw = strings.TrimLeft(kw, ".")
	if kw == "" {
		kw = "search"
	}
	return filepath.Base(kw) + "_" + categoryID + "." + ext
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
