package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yigit/kaddem/internal/app/aggregator"
	"github.com/yigit/kaddem/internal/app/models/dto"
)

// histogramWidth is the length of the longest bar
const histogramWidth = 30

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func render(out io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(out, t.Render())
}

// warnStatus tells the user when a panel is built from a failed or stale
// collection
func warnStatus(out io.Writer, st dto.CollectionStatus) {
	switch {
	case st.Stale:
		fmt.Fprintf(out, "warning: %s could not be reloaded, showing an older copy: %s\n", st.Name, st.Error)
	case st.State == "failed":
		fmt.Fprintf(out, "warning: %s unavailable: %s\n", st.Name, st.Error)
	}
}

func renderStats(out io.Writer, resp dto.StatsResponse) {
	rows := make([][]string, 0, len(resp.Stats))
	for _, s := range resp.Stats {
		count := strconv.Itoa(s.Count)
		if !s.Available {
			count += " (unavailable)"
		}
		rows = append(rows, []string{s.Label, count})
	}
	render(out, []string{"Collection", "Count"}, rows)
}

func renderHistogram(out io.Writer, h aggregator.Histogram) {
	rows := make([][]string, 0, len(h.Buckets))
	for _, b := range h.Buckets {
		bar := ""
		if h.Max > 0 {
			bar = strings.Repeat("#", b.Count*histogramWidth/h.Max)
		}
		rows = append(rows, []string{string(b.Option), strconv.Itoa(b.Count), bar})
	}
	render(out, []string{"Option", "Students", ""}, rows)
	fmt.Fprintf(out, "%d students with an option\n", h.Total)
}

func renderRows(out io.Writer, rows []aggregator.DisplayRow) {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			string(r.Option),
			r.Email,
			r.Department,
		})
	}
	render(out, []string{"ID", "Name", "Option", "Email", "Department"}, cells)
}

func renderRecent(out io.Writer, students []aggregator.RecentStudent) {
	cells := make([][]string, 0, len(students))
	for _, s := range students {
		cells = append(cells, []string{
			s.Name,
			s.Email,
			s.Department,
			s.JoinDate.Format("2006-01-02"),
			s.Status,
		})
	}
	render(out, []string{"Name", "Email", "Department", "Joined", "Status"}, cells)
}

func renderCollections(out io.Writer, resp dto.RefreshResponse) {
	cells := make([][]string, 0, len(resp.Collections))
	for _, c := range resp.Collections {
		cells = append(cells, []string{c.Name, c.State, strconv.Itoa(c.Count), c.Error})
	}
	render(out, []string{"Collection", "State", "Count", "Error"}, cells)
	fmt.Fprintf(out, "refresh %s\n", resp.State)
}
