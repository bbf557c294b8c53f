package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// TermSink prints charts as tables.
type TermSink struct {
	W io.Writer
	// MaxRows caps printed rows per chart; 0 prints everything.
	MaxRows int
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	noteColor    = color.New(color.FgYellow)
)

// Heading prints a section title.
func Heading(w io.Writer, title string) {
	headingColor.Fprintf(w, "\n%s\n", title)
}

// Note prints a highlighted one-line note.
func Note(w io.Writer, format string, args ...interface{}) {
	noteColor.Fprintf(w, format+"\n", args...)
}

// WriteTable prints rows under a header, numbers right-aligned.
func WriteTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	table.Render()
}

// Render prints the chart title, kind and data table.
func (s TermSink) Render(c Chart) error {
	Heading(s.W, fmt.Sprintf("%s [%s]", c.Title, c.Kind))
	if c.Empty() {
		Note(s.W, "(no data)")
		return nil
	}
	var header []string
	var rows [][]string
	if c.Kind == KindHeatmap {
		header = append([]string{c.Axes.Y + " \\ " + c.Axes.X}, c.Grid.ColLabels...)
		for r, label := range c.Grid.RowLabels {
			row := []string{label}
			for _, v := range c.Grid.Values[r] {
				row = append(row, cell(v, c.Grid.Format))
			}
			rows = append(rows, row)
		}
	} else {
		header = []string{c.Axes.X}
		for _, sr := range c.Series {
			header = append(header, sr.Name)
		}
		for i, label := range c.Labels {
			row := []string{label}
			for _, sr := range c.Series {
				row = append(row, cell(sr.Values[i], ""))
			}
			rows = append(rows, row)
		}
	}
	total := len(rows)
	if s.MaxRows > 0 && total > s.MaxRows {
		rows = rows[:s.MaxRows]
	}
	WriteTable(s.W, header, rows)
	if len(rows) < total {
		Note(s.W, "showing %d of %d rows", len(rows), total)
	}
	return nil
}

func cell(v float64, format string) string {
	if math.IsNaN(v) {
		return ""
	}
	if format != "" {
		return fmt.Sprintf(format, v)
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
