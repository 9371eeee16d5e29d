package output

import (
	"bytes"
	"html/template"
)

// HTMLFormatter produces a self-contained HTML page.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": FormatMoney,
	"pct":   FormatPercentage,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Income Tax Report</title></head>
<body>
<h1>Income Tax Report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
{{range .Entries}}{{$r := .Result}}
<h2>{{if .CountryName}}{{.CountryName}} ({{$r.CountryCode}}){{else}}{{$r.CountryCode}}{{end}}</h2>
{{if $r.OK}}
<table>
<tr><th>Gross income</th><td>{{money $r.GrossIncome $r.Currency}}</td></tr>
<tr><th>Income tax</th><td>{{money $r.TotalTax $r.Currency}}</td></tr>
<tr><th>Effective rate</th><td>{{pct $r.EffectiveRate}}</td></tr>
<tr><th>Net income</th><td>{{money $r.NetIncome $r.Currency}}</td></tr>
</table>
{{if $r.Breakdown}}<table>
<tr><th>Bracket</th><th>Taxed</th><th>Tax</th></tr>
{{range $b := $r.Breakdown}}<tr><td>{{$b.String}}</td><td>{{money $b.Taxed $r.Currency}}</td><td>{{money $b.Tax $r.Currency}}</td></tr>
{{end}}</table>{{end}}
{{else}}<p>No calculation: {{$r.Status}}</p>{{end}}
{{end}}
</body>
</html>
`))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
