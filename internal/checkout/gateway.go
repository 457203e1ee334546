package checkout

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// GatewayForm is the hidden-field POST form that hands the browser over to
// the payment gateway. Field values are posted exactly as received.
type GatewayForm struct {
	Action string
	Fields []FormField
}

// FormField is one hidden input of the gateway form.
type FormField struct {
	Name  string
	Value string
}

// NewGatewayForm freezes a gateway instruction into a renderable form.
// Fields are ordered by name so the rendered document is deterministic.
func NewGatewayForm(instr *GatewayInstruction) (*GatewayForm, error) {
	if instr == nil || instr.GatewayURL == "" {
		return nil, fmt.Errorf("gateway instruction required")
	}
	fields := make([]FormField, 0, len(instr.FormData))
	for name, value := range instr.FormData {
		fields = append(fields, FormField{Name: name, Value: value})
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	return &GatewayForm{
		Action: instr.GatewayURL,
		Fields: fields,
	}, nil
}

var gatewayFormTemplate = template.Must(template.New("gateway-form").Parse(`<!DOCTYPE html>
<html>
<head><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<form action="{{.Action}}" method="POST">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}"/>
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

// HTML renders the auto-submitting handoff document.
func (f *GatewayForm) HTML() (string, error) {
	var out strings.Builder
	if err := gatewayFormTemplate.Execute(&out, f); err != nil {
		return "", fmt.Errorf("render gateway form: %w", err)
	}
	return out.String(), nil
}
