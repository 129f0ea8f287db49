package render

import (
	"bytes"
	"html/template"
	"io"

	"github.com/jonesrussell/newscheck/internal/highlight"
)

var segmentsTemplate = template.Must(template.New("segments").Funcs(template.FuncMap{
	"level":   highlight.Level,
	"percent": highlight.SuspicionPercent,
}).Parse(`{{range .}}{{if .IsHighlighted}}<span class="bg-red-{{level .Score}} rounded px-0.5" title="Suspicion score: {{percent .Score}}%">{{.Text}}</span>{{else}}<span>{{.Text}}</span>{{end}}{{end}}`))

// WriteHTML writes segments as escaped <span> elements.
func WriteHTML(w io.Writer, segments []highlight.Segment) error {
	return segmentsTemplate.Execute(w, segments)
}

// HTML renders segments to a safe fragment.
func HTML(segments []highlight.Segment) (template.HTML, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, segments); err != nil {
		return "", err
	}
	//nolint:gosec // output of html/template is already escaped
	return template.HTML(buf.String()), nil
}
