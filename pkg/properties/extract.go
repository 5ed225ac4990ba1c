package properties

import (
	"encoding/json"
	"strconv"

	"github.com/hmoraleda/relink/pkg/errors"
)

// Text extracts the text content of a property value. The switch over kinds
// is exhaustive: every known kind has its own pure extraction, and unknown
// kinds degrade to a best-effort coercion of the raw payload alongside an
// ExtractionError the caller should log. Extraction never fails hard; the
// returned string is usable even when the error is non-nil.
func Text(p Property) (string, error) {
	switch p.Kind {
	case KindTitle:
		return firstRun(p.Title), nil
	case KindRichText:
		return firstRun(p.RichText), nil
	case KindEmail:
		return p.Email, nil
	case KindSelect:
		return optionName(p.Select), nil
	case KindMultiSelect:
		if len(p.MultiSelect) == 0 {
			return "", nil
		}
		return p.MultiSelect[0].Name, nil
	case KindStatus:
		return optionName(p.Status), nil
	case KindFormula:
		return formulaText(p.Formula), nil
	case KindRollup:
		return rollupText(p.Rollup)
	case KindNumber:
		if p.Number == nil {
			return "", nil
		}
		return formatNumber(*p.Number), nil
	case KindURL:
		return p.URL, nil
	case KindPhoneNumber:
		return p.PhoneNumber, nil
	case KindRelation:
		return "", &errors.ExtractionError{
			Kind:    string(p.Kind),
			Message: "relation values carry record references, not text",
		}
	default:
		return coerce(p.raw), &errors.ExtractionError{
			Kind:    string(p.Kind),
			Message: "unrecognized property kind, coerced best-effort",
		}
	}
}

// firstRun returns the plain text of the first run, falling back to the
// writable content when the remote omitted plain_text.
func firstRun(runs []TextRun) string {
	if len(runs) == 0 {
		return ""
	}
	if runs[0].PlainText != "" {
		return runs[0].PlainText
	}
	if runs[0].Text != nil {
		return runs[0].Text.Content
	}
	return ""
}

func optionName(opt *Option) string {
	if opt == nil {
		return ""
	}
	return opt.Name
}

func formulaText(f *Formula) string {
	if f == nil {
		return ""
	}
	switch {
	case f.String != nil:
		return *f.String
	case f.Number != nil:
		return formatNumber(*f.Number)
	case f.Boolean != nil:
		return strconv.FormatBool(*f.Boolean)
	case f.Date != nil:
		return f.Date.Start
	}
	return ""
}

func rollupText(r *Rollup) (string, error) {
	if r == nil {
		return "", nil
	}
	switch {
	case r.Number != nil:
		return formatNumber(*r.Number), nil
	case r.Date != nil:
		return r.Date.Start, nil
	case len(r.Array) > 0:
		// A rollup over a text-ish property computes an array; take the
		// first element, matching the first-run rule for text properties.
		return Text(r.Array[0])
	}
	return "", nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// coerce attempts a last-resort string or number reading of an unknown
// property payload.
func coerce(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	for key, value := range payload {
		if key == "id" || key == "type" {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			return s
		}
		var n float64
		if err := json.Unmarshal(value, &n); err == nil {
			return formatNumber(n)
		}
	}
	return ""
}
