package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sickstat/app"
	"sickstat/domain/leave"
)

const (
	chartWidthPx  = 760
	chartHeightPx = 360

	colorFirst  = "#d9534f"
	colorSecond = "#5b8def"
)

// ComparisonView is one comparison prepared for the report template
type ComparisonView struct {
	Title      string
	Comparison *app.Comparison
	// ChartPage is a standalone echarts page, embedded through an iframe srcdoc
	ChartPage   string
	VerdictHTML template.HTML
}

// ReportView is the data behind report.html
type ReportView struct {
	Report      *app.Report
	Comparisons []ComparisonView
}

func buildReportView(report *app.Report) (ReportView, error) {
	view := ReportView{Report: report}
	for _, cmp := range report.Comparisons() {
		page, err := renderHistogramPage(cmp)
		if err != nil {
			return ReportView{}, fmt.Errorf("failed to render %s histogram: %w", cmp.Dimension, err)
		}
		view.Comparisons = append(view.Comparisons, ComparisonView{
			Title:       comparisonTitle(cmp.Dimension, report.Params.AgeThreshold),
			Comparison:  cmp,
			ChartPage:   page,
			VerdictHTML: renderMarkdown(cmp.Summary.Markdown),
		})
	}
	return view, nil
}

func comparisonTitle(dim leave.Dimension, threshold int) string {
	if dim == leave.DimensionAge {
		return fmt.Sprintf("Работники старше %d лет и молодые", threshold)
	}
	return "Мужчины и женщины"
}

// renderHistogramPage draws both groups' work_days histograms as overlaid bars
func renderHistogramPage(cmp *app.Comparison) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", chartWidthPx),
			Height: fmt.Sprintf("%dpx", chartHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Распределение пропущенных дней",
			Subtitle: fmt.Sprintf("%s: %d, %s: %d", cmp.Groups.First.Name, cmp.Groups.First.Size(), cmp.Groups.Second.Name, cmp.Groups.Second.Size()),
			Left:     "left",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "work_days", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "работников"}),
	)

	bar.SetXAxis(binLabels(cmp.FirstHistogram)).
		AddSeries(cmp.Groups.First.Name, barData(cmp.FirstHistogram, colorFirst)).
		AddSeries(cmp.Groups.Second.Name, barData(cmp.SecondHistogram, colorSecond))

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func binLabels(h leave.Histogram) []string {
	labels := make([]string, len(h.Counts))
	for i := range h.Counts {
		closing := ")"
		if i == len(h.Counts)-1 {
			closing = "]"
		}
		labels[i] = fmt.Sprintf("[%s, %s%s", formatEdge(h.Edges[i]), formatEdge(h.Edges[i+1]), closing)
	}
	return labels
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func barData(h leave.Histogram, color string) []opts.BarData {
	data := make([]opts.BarData, len(h.Counts))
	for i, c := range h.Counts {
		data[i] = opts.BarData{
			Value:     c,
			ItemStyle: &opts.ItemStyle{Color: color, Opacity: opts.Float(0.7)},
		}
	}
	return data
}

// renderMarkdown turns the summarizer's markdown into HTML.
// The markdown is generated by the summarizer, never by the uploader.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}
