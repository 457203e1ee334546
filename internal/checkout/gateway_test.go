package checkout

import (
	"strings"
	"testing"
)

func TestNewGatewayFormSortsFields(t *testing.T) {
	t.Parallel()

	form, err := NewGatewayForm(&GatewayInstruction{
		GatewayURL: "https://gateway.example/form",
		FormData:   map[string]string{"signature": "sig", "amount": "250.00", "product_code": "EPAYTEST"},
	})
	if err != nil {
		t.Fatalf("new gateway form: %v", err)
	}

	if len(form.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(form.Fields))
	}
	if form.Fields[0].Name != "amount" || form.Fields[2].Name != "signature" {
		t.Fatalf("expected fields sorted by name, got %v", form.Fields)
	}
}

func TestNewGatewayFormRequiresInstruction(t *testing.T) {
	t.Parallel()

	if _, err := NewGatewayForm(nil); err == nil {
		t.Fatal("expected error for nil instruction")
	}
	if _, err := NewGatewayForm(&GatewayInstruction{}); err == nil {
		t.Fatal("expected error for missing gateway url")
	}
}

func TestGatewayFormHTML(t *testing.T) {
	t.Parallel()

	form, err := NewGatewayForm(&GatewayInstruction{
		GatewayURL: "https://gateway.example/form",
		FormData:   map[string]string{"amount": "250.00", "note": `a "quoted" <value>`},
	})
	if err != nil {
		t.Fatalf("new gateway form: %v", err)
	}

	html, err := form.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(html, `action="https://gateway.example/form" method="POST"`) {
		t.Fatalf("missing form action in %s", html)
	}
	if !strings.Contains(html, `name="amount" value="250.00"`) {
		t.Fatalf("missing amount field in %s", html)
	}
	if strings.Contains(html, `<value>`) {
		t.Fatal("field values must be escaped")
	}
	if !strings.Contains(html, "document.forms[0].submit()") {
		t.Fatal("form must auto-submit on load")
	}
}
