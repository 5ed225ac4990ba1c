package properties

import (
	"encoding/json"
	"testing"

	"github.com/hmoraleda/relink/pkg/errors"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }

func TestTextKnownKinds(t *testing.T) {
	tests := []struct {
		name     string
		prop     Property
		expected string
	}{
		{
			name:     "title takes first run plain text",
			prop:     Property{Kind: KindTitle, Title: []TextRun{{PlainText: "Juan Pérez"}, {PlainText: "ignored"}}},
			expected: "Juan Pérez",
		},
		{
			name:     "title falls back to writable content",
			prop:     Property{Kind: KindTitle, Title: []TextRun{{Text: &TextContent{Content: "fallback"}}}},
			expected: "fallback",
		},
		{
			name:     "empty title",
			prop:     Property{Kind: KindTitle},
			expected: "",
		},
		{
			name:     "rich text first run",
			prop:     Property{Kind: KindRichText, RichText: []TextRun{{PlainText: "note"}}},
			expected: "note",
		},
		{
			name:     "email",
			prop:     Property{Kind: KindEmail, Email: "juan@example.com"},
			expected: "juan@example.com",
		},
		{
			name:     "select option name",
			prop:     Property{Kind: KindSelect, Select: &Option{Name: "M"}},
			expected: "M",
		},
		{
			name:     "empty select",
			prop:     Property{Kind: KindSelect},
			expected: "",
		},
		{
			name:     "multi select first option",
			prop:     Property{Kind: KindMultiSelect, MultiSelect: []Option{{Name: "a"}, {Name: "b"}}},
			expected: "a",
		},
		{
			name:     "status option name",
			prop:     Property{Kind: KindStatus, Status: &Option{Name: "Done"}},
			expected: "Done",
		},
		{
			name:     "formula string",
			prop:     Property{Kind: KindFormula, Formula: &Formula{String: strPtr("computed")}},
			expected: "computed",
		},
		{
			name:     "formula number",
			prop:     Property{Kind: KindFormula, Formula: &Formula{Number: floatPtr(42)}},
			expected: "42",
		},
		{
			name:     "formula boolean",
			prop:     Property{Kind: KindFormula, Formula: &Formula{Boolean: boolPtr(true)}},
			expected: "true",
		},
		{
			name:     "formula date",
			prop:     Property{Kind: KindFormula, Formula: &Formula{Date: &Date{Start: "2024-01-15"}}},
			expected: "2024-01-15",
		},
		{
			name:     "rollup number",
			prop:     Property{Kind: KindRollup, Rollup: &Rollup{Number: floatPtr(3.5)}},
			expected: "3.5",
		},
		{
			name: "rollup array recurses into first element",
			prop: Property{Kind: KindRollup, Rollup: &Rollup{
				Array: []Property{{Kind: KindRichText, RichText: []TextRun{{PlainText: "rolled"}}}},
			}},
			expected: "rolled",
		},
		{
			name:     "empty rollup",
			prop:     Property{Kind: KindRollup},
			expected: "",
		},
		{
			name:     "number formats without exponent",
			prop:     Property{Kind: KindNumber, Number: floatPtr(1234567)},
			expected: "1234567",
		},
		{
			name:     "nil number",
			prop:     Property{Kind: KindNumber},
			expected: "",
		},
		{
			name:     "url",
			prop:     Property{Kind: KindURL, URL: "https://example.com"},
			expected: "https://example.com",
		},
		{
			name:     "phone number",
			prop:     Property{Kind: KindPhoneNumber, PhoneNumber: "+34 600 000 000"},
			expected: "+34 600 000 000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.prop)
			if err != nil {
				t.Fatalf("Text() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Text() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTextRelationReturnsExtractionError(t *testing.T) {
	prop := Property{Kind: KindRelation, Relation: []Reference{{ID: "abc"}}}

	got, err := Text(prop)
	if got != "" {
		t.Errorf("Text() = %q, want empty string", got)
	}
	var extractErr *errors.ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Text() error = %v, want *errors.ExtractionError", err)
	}
}

func TestTextUnknownKindCoerces(t *testing.T) {
	raw := []byte(`{"id":"x","type":"created_by","created_by":"someone"}`)
	var prop Property
	if err := json.Unmarshal(raw, &prop); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, err := Text(prop)
	if got != "someone" {
		t.Errorf("Text() = %q, want %q", got, "someone")
	}
	var extractErr *errors.ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Text() error = %v, want *errors.ExtractionError", err)
	}
}

func TestTextUnknownKindNumberPayload(t *testing.T) {
	raw := []byte(`{"id":"x","type":"unique_id","unique_id":7}`)
	var prop Property
	if err := json.Unmarshal(raw, &prop); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, _ := Text(prop)
	if got != "7" {
		t.Errorf("Text() = %q, want %q", got, "7")
	}
}
