package engine

import (
	"bytes"
	"fmt"
	"text/template"
)

func parseMessage(name, tmplStr string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message template %s: %v", name, err)
	}
	return t, nil
}

// renderMessage fills a rule message with the field values plus "matched" and
// "contribution". Execution errors leave the message empty.
func renderMessage(t *template.Template, values map[string]any, matched bool, contribution float64) string {
	data := make(map[string]any, len(values)+2)
	for k, v := range values {
		data[k] = v
	}
	data["matched"] = matched
	data["contribution"] = contribution

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
