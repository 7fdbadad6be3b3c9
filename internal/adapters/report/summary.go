package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/emsanalytics/internal/domain/model"
)

// Summary writes the human-readable run summary to out. Styling degrades to
// plain text when out is not a terminal.
func Summary(out io.Writer, r *model.Report) error {
	renderer := lipgloss.NewRenderer(out)
	title := renderer.NewStyle().Bold(true).Underline(true)
	heading := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	muted := renderer.NewStyle().Faint(true)

	var b strings.Builder
	fmt.Fprintln(&b, title.Render("Employee Analytics Summary"))
	fmt.Fprintln(&b, muted.Render(fmt.Sprintf("source %s, %d employees, run %s", r.Run.Source, r.Run.Rows, r.Run.ID)))

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heading.Render("Average Salary per Department"))
	width := 0
	for _, d := range r.DepartmentSalaries {
		width = max(width, len(d.Department))
	}
	for _, d := range r.DepartmentSalaries {
		fmt.Fprintf(&b, "  %-*s  $%.2f\n", width, d.Department, d.MeanSalary)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heading.Render("Top Performers"))
	if len(r.TopPerformers) == 0 {
		fmt.Fprintln(&b, "  none")
	}
	for _, p := range r.TopPerformers {
		fmt.Fprintf(&b, "  %s (%d)\n", p.Name, p.PerformanceScore)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heading.Render("Attrition Risk (Low Performance)"))
	if len(r.AttritionRisk) == 0 {
		fmt.Fprintln(&b, "  none")
	}
	for _, e := range r.AttritionRisk {
		fmt.Fprintf(&b, "  %s, %s\n", e.Name, e.Role)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heading.Render("Salary Trend"))
	if r.Regression.Skipped {
		fmt.Fprintln(&b, "  Insufficient data for reliable modeling.")
	} else {
		fmt.Fprintf(&b, "  Each year of experience adds approx. $%.2f (R2: %.2f, MSE: %.2f)\n",
			r.Regression.Coefficient, r.Regression.R2, r.Regression.MSE)
	}

	if r.Segmented() {
		labels := map[int]int{}
		for _, s := range r.Segments {
			labels[s.Segment]++
		}
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, heading.Render("Segmentation"))
		fmt.Fprintf(&b, "  %d employees in %d segments\n", len(r.Segments), len(labels))
	}

	_, err := io.WriteString(out, b.String())
	return err
}
