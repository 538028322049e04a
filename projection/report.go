// Package projection renders runs, reports and predictions for the terminal.
// It only formats values, it never computes them.
package projection

import (
	"fmt"
	"io"
	"math"
	"sentiment-lab/domain"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const (
	barWidth      = 40
	commentLength = 60
)

var (
	positiveStyle = color.New(color.FgGreen, color.OpBold)
	negativeStyle = color.New(color.FgRed, color.OpBold)
	headerStyle   = color.New(color.BgBlack, color.FgGreen)
)

// RenderReport writes the class counts, their proportions and a bar.
func RenderReport(w io.Writer, report domain.Report, colours bool) {
	title := fmt.Sprintf(" Sentiment report (threshold %.2f) ", report.Threshold)
	if colours {
		title = headerStyle.Render(title)
	}
	_, _ = fmt.Fprintln(w, title)

	table := newTable(w)
	table.SetHeader([]string{"Class", "Comments", "Share"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	table.Append([]string{string(domain.Positive), strconv.Itoa(report.Positive), percent(report.PositiveRatio)})
	table.Append([]string{string(domain.Negative), strconv.Itoa(report.Negative), percent(report.NegativeRatio)})
	if report.Failed > 0 {
		table.Append([]string{"failed", strconv.Itoa(report.Failed), ""})
	}
	if report.Labelled > 0 {
		table.Append([]string{"accuracy", fmt.Sprintf("%d/%d", report.Correct, report.Labelled), percent(report.Accuracy)})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(report.Total), ""})
	table.Render()

	_, _ = fmt.Fprintln(w, Bar(report.PositiveRatio, report.Total, colours))
}

// Bar draws the positive share in green and the negative share in red.
// An empty report draws an empty bar.
func Bar(positiveRatio float64, total int, colours bool) string {
	if total == 0 {
		return "[" + strings.Repeat(" ", barWidth) + "]"
	}
	positive := int(math.Round(positiveRatio * barWidth))
	left := strings.Repeat("█", positive)
	right := strings.Repeat("░", barWidth-positive)
	if colours {
		left = positiveStyle.Render(left)
		right = negativeStyle.Render(right)
	}
	return "[" + left + right + "]"
}

// RenderPredictions lists predictions in input order.
func RenderPredictions(w io.Writer, predictions []domain.Prediction) {
	table := newTable(w)
	table.SetHeader([]string{"Row", "Lang", "Score", "Label", "Comment", "Error"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})
	for _, p := range predictions {
		score := fmt.Sprintf("%.3f", p.Score)
		if p.Failed() {
			score = ""
		}
		table.Append([]string{
			strconv.Itoa(p.Row),
			p.Lang,
			score,
			string(p.Label),
			truncate(p.Raw, commentLength),
			p.Err,
		})
	}
	table.Render()
}

// RenderRuns lists stored runs, most recent first.
func RenderRuns(w io.Writer, runs []domain.Run) {
	table := newTable(w)
	table.SetHeader([]string{"Run", "Started", "Source", "Scorer", "Total", "Positive", "Failed"})
	for _, run := range runs {
		table.Append([]string{
			run.ID.String(),
			run.Started.Format("2006-01-02 15:04:05"),
			run.Source,
			run.Scorer,
			strconv.Itoa(run.Report.Total),
			percent(run.Report.PositiveRatio),
			strconv.Itoa(run.Report.Failed),
		})
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
