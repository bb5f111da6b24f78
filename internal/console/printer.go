package console

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"

	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/UnknownOlympus/nearpharma/internal/notify"
	"github.com/UnknownOlympus/nearpharma/internal/view"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Printer writes notifications and views to a terminal. It is both the notifier and a
// renderer of the session.
type Printer struct {
	mu          sync.Mutex
	out         io.Writer
	success     *color.Color
	failure     *color.Color
	accent      *color.Color
	suggestions []models.MedicineSuggestion
	rows        []view.ResultRow
}

// NewPrinter creates a printer writing to out. Colors are used only when colored is set.
func NewPrinter(out io.Writer, colored bool) *Printer {
	p := &Printer{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		accent:  color.New(color.FgCyan),
	}

	for _, c := range []*color.Color{p.success, p.failure, p.accent} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Notify prints a toast-like line.
func (p *Printer) Notify(message string, kind notify.Kind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if kind == notify.Success {
		p.success.Fprintf(p.out, "[ok] %s\n", message)
		return
	}
	p.failure.Fprintf(p.out, "[error] %s\n", message)
}

// Printf writes a plain line.
func (p *Printer) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, format, args...)
}

// Render prints the suggestion list and the results table whenever they change.
func (p *Printer) Render(v view.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !slices.Equal(p.suggestions, v.Suggestions) {
		p.suggestions = slices.Clone(v.Suggestions)
		p.printSuggestions()
	}

	if !slices.Equal(p.rows, v.Rows) {
		p.rows = slices.Clone(v.Rows)
		if len(p.rows) > 0 {
			p.printResults()
		}
	}
}

// Show prints the complete view.
func (p *Printer) Show(v view.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printInput(v.Input)

	if center, ok := v.Center.Get(); ok {
		p.accent.Fprintf(p.out, "%s: %s\n", view.OriginLabel, formatCoordinates(center))
	}

	for idx, line := range v.Polylines {
		fmt.Fprintf(p.out, "path %d (%s): %s -> %s\n",
			idx+1, line.Color, formatCoordinates(line.Points[0]), formatCoordinates(line.Points[1]))
	}

	p.rows = slices.Clone(v.Rows)
	if len(p.rows) > 0 {
		p.printResults()
	}

	var status []string
	if v.Searching {
		status = append(status, "searching medicines")
	}
	if v.Busy {
		status = append(status, "fetching recommendations")
	}
	if v.Locating {
		status = append(status, "locating")
	}
	for _, s := range status {
		p.accent.Fprintf(p.out, "... %s\n", s)
	}
}

func (p *Printer) printSuggestions() {
	if len(p.suggestions) == 0 {
		fmt.Fprintln(p.out, "no medicines found")
		return
	}

	for idx, s := range p.suggestions {
		fmt.Fprintf(p.out, "%d) %s\n", idx+1, s.Name)
	}
}

func (p *Printer) printInput(input view.InputRow) {
	table := tablewriter.NewWriter(p.out)
	table.Header("Latitude", "Longitude", "Quantity", "Medicine")
	_ = table.Append([]string{
		formatOptional(input.Latitude),
		formatOptional(input.Longitude),
		strconv.Itoa(input.Quantity),
		input.MedicineName,
	})
	_ = table.Render()
}

func (p *Printer) printResults() {
	table := tablewriter.NewWriter(p.out)
	table.Header("Branch", "Medicine", "Quantity", "Rating", "Area", "Address", "City")
	for _, row := range p.rows {
		_ = table.Append([]string{
			row.BranchName,
			row.MedicineName,
			strconv.Itoa(row.MedicineQuantity),
			strconv.FormatFloat(row.Rating, 'f', -1, 64),
			row.AreaName,
			row.Address,
			row.City,
		})
	}
	_ = table.Render()
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatCoordinates(c models.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
