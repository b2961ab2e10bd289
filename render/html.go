package render

import (
	"html/template"
	"io"
)

var prosodyTableTemplate = template.Must(template.New("prosody-table").Parse(`
<table class="prosody-table" style="width:100%; border-collapse: collapse; margin-top: 15px;">
  <thead>
    <tr style="background-color: #f2f2f2;">
      <th style="padding: 8px; border: 1px solid #ddd; text-align: left;">Prosody Feature</th>
      <th style="padding: 8px; border: 1px solid #ddd; text-align: left;">Value</th>
    </tr>
  </thead>
  <tbody>
{{- range .}}
    <tr>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Feature}}</td>
      <td style="padding: 8px; border: 1px solid #ddd;">{{.Value}}</td>
    </tr>
{{- end}}
  </tbody>
</table>
`))

// HTMLTable renders the summary as an HTML table fragment
type HTMLTable struct{}

// NewHTMLTable creates an HTML table renderer
func NewHTMLTable() *HTMLTable {
	return &HTMLTable{}
}

// Extension implements Renderer
func (h *HTMLTable) Extension() string { return ".html" }

// Render implements Renderer
func (h *HTMLTable) Render(w io.Writer, report *Report) error {
	return prosodyTableTemplate.Execute(w, summaryRows(report.Summary))
}
