// internal/report/html.go
// Package report renders the dashboard view-model as a standalone HTML page
// with inline SVG charts.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/mwiater/evaldash/internal/view"
)

// Options controls page rendering.
type Options struct {
	// Interactive adds the upload and reset forms and makes the filters submit
	// back to the server. Static reports leave them out.
	Interactive bool
	// MaxUploadMB is shown next to the upload field.
	MaxUploadMB int
	// GeneratedAt stamps the footer; zero omits it.
	GeneratedAt time.Time
}

type pageData struct {
	view.Dashboard
	Options
	SVG struct {
		Alignment template.HTML
		Journals  template.HTML
		PassRates template.HTML
	}
}

// Render writes the HTML page for d to w.
func Render(w io.Writer, d view.Dashboard, opts Options) error {
	data := pageData{Dashboard: d, Options: opts}
	if d.Ready() {
		charts, err := RenderCharts(d.Charts)
		if err != nil {
			return err
		}
		data.SVG.Alignment = template.HTML(charts.Alignment)
		data.SVG.Journals = template.HTML(charts.Journals)
		data.SVG.PassRates = template.HTML(charts.PassRates)
	}
	return pageTemplate.Execute(w, data)
}

// Generate renders d into a string, mirroring Render.
func Generate(d view.Dashboard, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var pageFuncs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"statusClass": func(status string) string {
		switch status {
		case "Pass":
			return "status-pass"
		case "Fail":
			return "status-fail"
		default:
			return ""
		}
	},
	"stamp":     func(t time.Time) string { return t.Format(time.RFC1123) },
	"errorHint": func() string { return view.ErrorHint },
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(pageFuncs).Parse(pageTemplateHTML))

const pageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
      --pass: #255C32;
      --fail: #893A42;
    }
    body {
      background-color: var(--light);
      color: var(--text);
    }
    .navbar-dark {
      background-color: var(--primary) !important;
    }
    .card {
      border: 1px solid var(--border);
      background-color: var(--background);
    }
    .table thead th {
      background-color: var(--light);
      color: var(--text);
      border-color: var(--border);
    }
    td.status-pass {
      background-color: var(--pass);
      color: #FFFFFF;
    }
    td.status-fail {
      background-color: var(--fail);
      color: #FFFFFF;
    }
    .chart-card {
      background: var(--background);
      border-radius: 16px;
      padding: 1.5rem;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.1);
      border: 1px solid var(--border);
    }
    .chart-title {
      font-size: 1.25rem;
      font-weight: 700;
      margin-bottom: 1rem;
    }
    .chart-card svg {
      max-width: 100%;
      height: auto;
    }
    .metric-value {
      font-size: 1.75rem;
      font-weight: 700;
    }
    .metric-label {
      color: var(--secondary);
    }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark mb-4">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      {{ if .Source }}<span class="text-light small">{{ .Source }}</span>{{ end }}
    </div>
  </nav>
  <main class="container-fluid px-4">
    <p class="text-secondary">{{ .Subtitle }}</p>
    {{ if .Interactive }}
    <div class="row g-3 mb-4">
      <div class="col-lg-3">
        <div class="card p-3">
          <h2 class="h6">Upload Data</h2>
          <form method="post" action="/upload" enctype="multipart/form-data">
            <input class="form-control mb-2" type="file" name="file" accept=".json,application/json">
            {{ if .MaxUploadMB }}<div class="form-text mb-2">Up to {{ .MaxUploadMB }} MB.</div>{{ end }}
            <button class="btn btn-primary btn-sm" type="submit">Upload</button>
          </form>
          <form method="post" action="/reset" class="mt-2">
            <button class="btn btn-outline-secondary btn-sm" type="submit">Reset to default file</button>
          </form>
        </div>
      </div>
      {{ if .JournalOptions }}
      <div class="col-lg-9">
        <div class="card p-3">
          <h2 class="h6">Filters</h2>
          <form method="get" action="/" class="row g-2 align-items-end">
            <div class="col-md-3">
              <label class="form-label" for="journal">Journal</label>
              <select class="form-select" id="journal" name="journal">
                {{ range .JournalOptions }}<option value="{{ . }}"{{ if eq . $.Filter.Journal }} selected{{ end }}>{{ . }}</option>{{ end }}
              </select>
            </div>
            <div class="col-md-3">
              <label class="form-label" for="alignment">Alignment</label>
              <select class="form-select" id="alignment" name="alignment">
                {{ range .AlignmentOptions }}<option value="{{ . }}"{{ if eq . $.Filter.Alignment }} selected{{ end }}>{{ . }}</option>{{ end }}
              </select>
            </div>
            {{ if .RecordOptions }}
            <div class="col-md-4">
              <label class="form-label" for="record">Record</label>
              <select class="form-select" id="record" name="record">
                {{ range .RecordOptions }}<option value="{{ . }}"{{ if eq . $.Filter.Record }} selected{{ end }}>{{ . }}</option>{{ end }}
              </select>
            </div>
            {{ end }}
            <div class="col-md-2">
              <button class="btn btn-primary w-100" type="submit">Apply</button>
            </div>
          </form>
        </div>
      </div>
      {{ end }}
    </div>
    {{ end }}

    {{ if .Error }}
    <div class="alert alert-danger" role="alert">{{ .Error }}</div>
    <div class="alert alert-info" role="alert">{{ errorHint }}</div>
    {{ else if .Warning }}
    <div class="alert alert-warning" role="alert">{{ .Warning }}</div>
    {{ else }}
    <section class="card mb-4">
      <div class="card-body">
        <h2 class="h5">Evaluation Results Overview</h2>
        <div class="table-responsive">
          <table class="table table-bordered table-sm" id="overviewTable">
            <thead><tr>{{ range .Overview.Headers }}<th>{{ .Label }}</th>{{ end }}</tr></thead>
            <tbody>
              {{ range .Overview.Rows }}<tr>{{ range . }}<td class="{{ statusClass .Status }}">{{ .Text }}</td>{{ end }}</tr>
              {{ end }}
            </tbody>
          </table>
        </div>
      </div>
    </section>

    {{ with .Detail }}
    <section class="card mb-4" id="detail">
      <div class="card-body">
        <h2 class="h5">Detailed Results</h2>
        <p class="text-secondary">{{ .Label }}</p>
        <div class="row">
          <div class="col-md-6">
            <h3 class="h6">Manuscript Information</h3>
            <ul class="list-unstyled">
              <li><strong>Journal ID:</strong> {{ .JournalID }}</li>
              <li><strong>Article ID:</strong> {{ .ArticleID }}</li>
              <li><strong>Title:</strong> {{ .Title }}</li>
              <li><strong>Timestamp:</strong> {{ .Timestamp }}</li>
              <li><strong>Evaluations Run:</strong> {{ .EvaluationsRun }}</li>
              <li><strong>Source File:</strong> {{ .SourceFile }}</li>
            </ul>
          </div>
          <div class="col-md-6">
            <h3 class="h6">Alignment Status</h3>
            <ul class="list-unstyled">
              <li><strong>Aligned:</strong> {{ .Aligned }}</li>
              <li><strong>Gold Aligned:</strong> {{ .GoldAligned }}</li>
            </ul>
            <h3 class="h6">Rationale</h3>
            <p>{{ .Rationale }}</p>
          </div>
        </div>
        <h3 class="h6 mt-3">Evaluation Results</h3>
        <table class="table table-bordered table-sm" id="detailTable">
          <thead><tr><th>Evaluation</th><th>Result</th></tr></thead>
          <tbody>
            {{ range .Results }}<tr><td>{{ .Evaluation }}</td><td class="{{ statusClass .Status }}">{{ .Result }}</td></tr>
            {{ end }}
          </tbody>
        </table>
      </div>
    </section>
    {{ end }}

    <div class="row g-3 mb-4">
      {{ if .SVG.Alignment }}<div class="col-lg-6"><div class="chart-card"><div class="chart-title">Alignment Distribution</div>{{ .SVG.Alignment }}</div></div>{{ end }}
      {{ if .SVG.Journals }}<div class="col-lg-6"><div class="chart-card"><div class="chart-title">Manuscripts per Journal</div>{{ .SVG.Journals }}</div></div>{{ end }}
      {{ if .SVG.PassRates }}<div class="col-12"><div class="chart-card"><div class="chart-title">Evaluation Pass Rates</div>{{ .SVG.PassRates }}</div></div>{{ end }}
    </div>

    {{ with .Summary }}
    <section class="card mb-4" id="summary">
      <div class="card-body">
        <h2 class="h5">Summary Statistics</h2>
        <div class="row text-center">
          <div class="col-md-4">
            <div class="metric-label">Total Records</div>
            <div class="metric-value">{{ .TotalRecords }}</div>
            <div class="metric-label">Unique Journals</div>
            <div class="metric-value">{{ .UniqueJournals }}</div>
            <div class="metric-label">Date Range</div>
            <div>{{ .DateFrom }} to {{ .DateTo }}</div>
          </div>
          <div class="col-md-4">
            {{ if .HasAligned }}
            <div class="metric-label">Aligned</div>
            <div class="metric-value">{{ pct .AlignedPct }}</div>
            <div class="metric-label">Not Aligned</div>
            <div class="metric-value">{{ pct .NotAlignedPct }}</div>
            {{ end }}
            {{ if .HasGoldAligned }}
            <div class="metric-label">Gold Aligned</div>
            <div class="metric-value">{{ pct .GoldAlignedPct }}</div>
            {{ end }}
          </div>
          <div class="col-md-4">
            <div class="metric-label">Evaluation Types</div>
            <div class="metric-value">{{ .EvaluationTypes }}</div>
            {{ if .HasSuccessRate }}
            <div class="metric-label">Avg Success Rate</div>
            <div class="metric-value">{{ pct .AverageSuccess }}</div>
            {{ end }}
          </div>
        </div>
      </div>
    </section>
    {{ end }}
    {{ end }}
    {{ if not .GeneratedAt.IsZero }}<footer class="text-secondary small mb-4">Generated {{ stamp .GeneratedAt }}</footer>{{ end }}
  </main>
</body>
</html>
`
