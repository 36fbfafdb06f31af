package services

import (
	"strings"
	"testing"

	"backend/models"
)

func sampleEmailData() models.EmailData {
	return models.EmailData{
		CustomerName:    "Asha Verma",
		QuotationNumber: "QT-2026-0042",
		FinalPrice:      "4,72,500.00",
		AmountInWords:   "Four Lakh Seventy Two Thousand Five Hundred Rupees Only",
		ValidUntil:      "30-Sep-2026",
		CompanyName:     "Urbanera Interiors",
	}
}

func TestProcessTemplateSubstitutesAllVariables(t *testing.T) {
	es := NewEmailService(nil)
	tmpl := "Dear {{customer_name}}, quotation {{quotation_number}} for Rs. {{final_price}} ({{amount_in_words}}) is valid until {{valid_until}}. - {{company_name}}"

	got, err := es.processTemplate(tmpl, sampleEmailData())
	if err != nil {
		t.Fatalf("processTemplate returned error: %v", err)
	}

	if strings.Contains(got, "{{") {
		t.Errorf("unsubstituted placeholder left in output: %q", got)
	}
	for _, want := range []string{"Asha Verma", "QT-2026-0042", "4,72,500.00", "30-Sep-2026", "Urbanera Interiors"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got %q", want, got)
		}
	}
}

func TestProcessTemplateLeavesUnknownPlaceholders(t *testing.T) {
	es := NewEmailService(nil)
	got, err := es.processTemplate("Hello {{unknown_var}}", sampleEmailData())
	if err != nil {
		t.Fatalf("processTemplate returned error: %v", err)
	}
	if got != "Hello {{unknown_var}}" {
		t.Errorf("unknown placeholder should pass through, got %q", got)
	}
}

func TestConvertHTMLToText(t *testing.T) {
	html := "<p>Dear Asha,</p><ul><li>Kitchen</li><li>Wardrobe</li></ul><p>Thanks</p>"
	got := convertHTMLToText(html)

	if strings.Contains(got, "<") {
		t.Errorf("tags left in plain text output: %q", got)
	}
	if !strings.Contains(got, "- Kitchen") || !strings.Contains(got, "- Wardrobe") {
		t.Errorf("list items should be rendered with dashes, got %q", got)
	}
	if !strings.Contains(got, "Dear Asha,") {
		t.Errorf("paragraph text missing from output: %q", got)
	}
}

func TestConvertHTMLToTextTables(t *testing.T) {
	html := "<table><tr><th>Item</th><th>Price</th></tr><tr><td>Kitchen</td><td>1200</td></tr></table>"
	got := convertHTMLToText(html)

	if !strings.Contains(got, "Item | Price") && !strings.Contains(got, "| Item | Price") {
		t.Errorf("table cells should be pipe separated, got %q", got)
	}
}

func TestPreviewEmailAsTextUsesDefaultVariables(t *testing.T) {
	es := NewEmailService(nil)
	got, err := es.PreviewEmailAsText(defaultQuotationTemplate, sampleEmailData())
	if err != nil {
		t.Fatalf("PreviewEmailAsText returned error: %v", err)
	}
	if !strings.Contains(got, "QT-2026-0042") {
		t.Errorf("quotation number missing from preview: %q", got)
	}
	if strings.Contains(got, "<p>") || strings.Contains(got, "<b>") {
		t.Errorf("preview should be plain text, got %q", got)
	}
}

func TestValidateTemplate(t *testing.T) {
	es := NewEmailService(nil)

	if err := es.ValidateTemplate("Hello {{customer_name}}"); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
	if err := es.ValidateTemplate("Hello {{customer_name}"); err == nil {
		t.Error("unbalanced braces should be rejected")
	}
	if err := es.ValidateTemplate("Hello {{not_a_variable}}"); err == nil {
		t.Error("unknown variable should be rejected")
	}
}
