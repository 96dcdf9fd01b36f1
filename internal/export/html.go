// Package export writes a report as a standalone HTML page rendered by Plotly.js.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"

	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
	"github.com/j-veylop/growth-dashboard-tui/internal/report"
)

// PlotlyCDN is the script the page loads Plotly.js from.
const PlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

const background = "#0e1117"

// chartBlock is one chart slot of the page. Spec is empty when Err is set.
type chartBlock struct {
	ID   string
	Spec template.JS
	Err  string
}

type page struct {
	Title       string
	Subtitle    string
	Attribution string
	FontColor   string
	Background  string
	PlotlyCDN   string
	GeneratedAt string
	RunID       string
	Stale       bool

	Revenue    chartBlock
	Delivery   chartBlock
	Geographic chartBlock
	Notes      template.HTML
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - {{.Subtitle}}</title>
<script src="{{.PlotlyCDN}}" charset="utf-8"></script>
<style>
  body { background: {{.Background}}; color: {{.FontColor}}; font-family: "Source Sans Pro", sans-serif; margin: 0 auto; max-width: 1100px; padding: 1rem 2rem; }
  header { text-align: center; }
  header h6 { font-weight: normal; margin: 0.5rem 0; }
  .row { display: flex; gap: 1rem; }
  .col { flex: 1; min-width: 0; }
  .chart-error { border: 1px solid #ff5f56; border-radius: 4px; padding: 1rem; color: #ff5f56; }
  .notes { margin-top: 2rem; }
  footer { font-size: 0.75rem; opacity: 0.6; margin-top: 2rem; }
</style>
</head>
<body>
<header>
  <h6>{{.Attribution}}</h6>
  <h1>{{.Title}}</h1>
  <h2>{{.Subtitle}}</h2>
</header>
{{template "chart" .Revenue}}
<div class="row">
  <div class="col">{{template "chart" .Delivery}}</div>
  <div class="col">{{template "chart" .Geographic}}</div>
</div>
<section class="notes">
{{.Notes}}
</section>
<footer>Run {{.RunID}} generated {{.GeneratedAt}}{{if .Stale}} (county boundaries from a stale cache){{end}}</footer>
</body>
</html>
{{define "chart"}}{{if .Err}}<div class="chart-error" id="{{.ID}}">Chart unavailable: {{.Err}}</div>{{else}}<div id="{{.ID}}"></div>
<script>
  (function () {
    var fig = {{.Spec}};
    Plotly.newPlot({{.ID}}, fig.data, fig.layout, {responsive: true});
  })();
</script>{{end}}{{end}}
`))

// Render writes the report page to w.
func Render(w io.Writer, rep *report.Report) error {
	notes, err := renderMarkdown(rep.Notes)
	if err != nil {
		return fmt.Errorf("failed to render notes: %w", err)
	}

	p := page{
		Title:       rep.Title,
		Subtitle:    rep.Subtitle,
		Attribution: rep.Attribution,
		FontColor:   rep.Theme.FontColor,
		Background:  background,
		PlotlyCDN:   PlotlyCDN,
		GeneratedAt: rep.GeneratedAt.Format("2006-01-02 15:04:05"),
		RunID:       rep.RunID,
		Stale:       rep.Boundaries.Stale,
		Revenue:     newChartBlock("revenue-chart", rep.Revenue),
		Delivery:    newChartBlock("delivery-chart", rep.Delivery),
		Geographic:  newChartBlock("geographic-chart", rep.Geographic),
		Notes:       notes,
	}

	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// WriteFile renders the report to path, replacing any existing file only
// once the page is complete.
func WriteFile(path string, rep *report.Report) error {
	var buf bytes.Buffer
	if err := Render(&buf, rep); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	logger.Info("Report exported", "path", path, "bytes", buf.Len(), "run", rep.RunID)
	return nil
}

// newChartBlock serializes a chart. A chart that cannot be serialized is
// shown as unavailable rather than failing the page. The layout width is
// dropped so the responsive chart fills its column.
func newChartBlock(id string, res report.ChartResult) chartBlock {
	if !res.OK() {
		msg := "not built"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		return chartBlock{ID: id, Err: msg}
	}

	fig := *res.Figure
	fig.Layout.Width = 0
	spec, err := json.Marshal(fig)
	if err != nil {
		logger.Warn("Failed to serialize chart", "chart", id, "error", err)
		return chartBlock{ID: id, Err: fmt.Sprintf("cannot serialize chart: %v", err)}
	}
	return chartBlock{ID: id, Spec: template.JS(spec)}
}

func renderMarkdown(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
