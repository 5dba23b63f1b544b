package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/runwaysim/internal/report"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": FormatMoney,
	"rate":  FormatRate,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(reports []*report.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Reports []*report.SimulationReport
	}{reports}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
