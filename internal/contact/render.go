package contact

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/illegalcall/second-opinion/internal/models"
)

const emailTemplate = `<html><body>` +
	`<table rules="all" style="border:1px solid #666;border-collapse:collapse;width:100%;max-width:640px" cellpadding="10">` +
	`{{range .}}<tr><td style="background:#f7f9fb;width:40%;font-weight:600;border:1px solid #e8edf3;">{{.Label}}</td>` +
	`<td style="border:1px solid #e8edf3;">{{.Value}}</td></tr>{{end}}` +
	`</table></body></html>`

var emailTmpl = template.Must(template.New("submission").Parse(emailTemplate))

type row struct {
	Label string
	Value template.HTML
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Render builds the HTML email body: one table row per non-empty field, in
// vocabulary order. Values are escaped before line breaks become <br>.
func Render(fields models.FieldSet) (string, error) {
	var rows []row
	for _, f := range Fields() {
		v := fields.Get(f.Key)
		if v == "" {
			continue
		}
		rows = append(rows, row{Label: f.Label, Value: formatValue(v)})
	}

	var sb strings.Builder
	if err := emailTmpl.Execute(&sb, rows); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return sb.String(), nil
}

func escapeValue(s string) string {
	return template.HTMLEscapeString(s)
}

func formatValue(s string) template.HTML {
	escaped := escapeValue(newlines.Replace(s))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n"))
}
