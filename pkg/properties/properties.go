// Package properties models the typed property values carried by workspace
// database records.
//
// The remote API represents each property as a tagged union: a "type" field
// naming the kind, next to a kind-specific payload key. This package keeps
// that union explicit so that extraction stays exhaustive over the known
// kinds instead of falling back silently on runtime shape inspection.
package properties

import "encoding/json"

// Kind identifies the payload shape of a property value.
type Kind string

// Known property kinds.
const (
	KindTitle       Kind = "title"
	KindRichText    Kind = "rich_text"
	KindEmail       Kind = "email"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindStatus      Kind = "status"
	KindFormula     Kind = "formula"
	KindRollup      Kind = "rollup"
	KindRelation    Kind = "relation"
	KindNumber      Kind = "number"
	KindURL         Kind = "url"
	KindPhoneNumber Kind = "phone_number"
)

// TextRun is one segment of a title or rich-text value.
type TextRun struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent is the writable payload of a text run.
type TextContent struct {
	Content string `json:"content"`
}

// Option is a select, multi-select, or status choice.
type Option struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Reference points at another record by identifier.
type Reference struct {
	ID string `json:"id"`
}

// Date is a date value as the remote API represents it.
type Date struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// Formula is the computed result of a formula property.
type Formula struct {
	Type    string   `json:"type,omitempty"`
	String  *string  `json:"string,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	Boolean *bool    `json:"boolean,omitempty"`
	Date    *Date    `json:"date,omitempty"`
}

// Rollup is the computed result of a rollup property.
type Rollup struct {
	Type   string     `json:"type,omitempty"`
	Number *float64   `json:"number,omitempty"`
	Date   *Date      `json:"date,omitempty"`
	Array  []Property `json:"array,omitempty"`
}

// Property is a tagged union over the known property kinds. Exactly one
// payload field is meaningful, selected by Kind. Unknown kinds keep their
// raw payload for best-effort coercion.
type Property struct {
	Kind Kind

	Title       []TextRun
	RichText    []TextRun
	Email       string
	Select      *Option
	MultiSelect []Option
	Status      *Option
	Formula     *Formula
	Rollup      *Rollup
	Relation    []Reference
	Number      *float64
	URL         string
	PhoneNumber string

	raw json.RawMessage
}

// propertyWire mirrors the remote representation for decoding.
type propertyWire struct {
	Type        Kind        `json:"type"`
	Title       []TextRun   `json:"title"`
	RichText    []TextRun   `json:"rich_text"`
	Email       *string     `json:"email"`
	Select      *Option     `json:"select"`
	MultiSelect []Option    `json:"multi_select"`
	Status      *Option     `json:"status"`
	Formula     *Formula    `json:"formula"`
	Rollup      *Rollup     `json:"rollup"`
	Relation    []Reference `json:"relation"`
	Number      *float64    `json:"number"`
	URL         *string     `json:"url"`
	PhoneNumber *string     `json:"phone_number"`
}

// UnmarshalJSON decodes a property from the remote wire shape.
func (p *Property) UnmarshalJSON(data []byte) error {
	var w propertyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	p.Kind = w.Type
	switch w.Type {
	case KindTitle:
		p.Title = w.Title
	case KindRichText:
		p.RichText = w.RichText
	case KindEmail:
		if w.Email != nil {
			p.Email = *w.Email
		}
	case KindSelect:
		p.Select = w.Select
	case KindMultiSelect:
		p.MultiSelect = w.MultiSelect
	case KindStatus:
		p.Status = w.Status
	case KindFormula:
		p.Formula = w.Formula
	case KindRollup:
		p.Rollup = w.Rollup
	case KindRelation:
		p.Relation = w.Relation
	case KindNumber:
		p.Number = w.Number
	case KindURL:
		if w.URL != nil {
			p.URL = *w.URL
		}
	case KindPhoneNumber:
		if w.PhoneNumber != nil {
			p.PhoneNumber = *w.PhoneNumber
		}
	default:
		p.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

// MarshalJSON encodes a property in the writable wire shape: the payload key
// only, as the remote API expects on create and update requests.
func (p Property) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{}
	switch p.Kind {
	case KindTitle:
		m["title"] = runsOrEmpty(p.Title)
	case KindRichText:
		m["rich_text"] = runsOrEmpty(p.RichText)
	case KindEmail:
		m["email"] = p.Email
	case KindSelect:
		m["select"] = p.Select
	case KindMultiSelect:
		m["multi_select"] = p.MultiSelect
	case KindStatus:
		m["status"] = p.Status
	case KindRelation:
		refs := p.Relation
		if refs == nil {
			refs = []Reference{}
		}
		m["relation"] = refs
	case KindNumber:
		m["number"] = p.Number
	case KindURL:
		m["url"] = p.URL
	case KindPhoneNumber:
		m["phone_number"] = p.PhoneNumber
	default:
		if p.raw != nil {
			return p.raw, nil
		}
	}
	return json.Marshal(m)
}

func runsOrEmpty(runs []TextRun) []TextRun {
	if runs == nil {
		return []TextRun{}
	}
	return runs
}

// Builders for writable property values.

// NewTitle builds a title property with a single text run.
func NewTitle(text string) Property {
	return Property{
		Kind:  KindTitle,
		Title: []TextRun{{Type: "text", Text: &TextContent{Content: text}, PlainText: text}},
	}
}

// NewRichText builds a rich-text property with a single text run.
func NewRichText(text string) Property {
	return Property{
		Kind:     KindRichText,
		RichText: []TextRun{{Type: "text", Text: &TextContent{Content: text}, PlainText: text}},
	}
}

// NewEmail builds an email property.
func NewEmail(address string) Property {
	return Property{Kind: KindEmail, Email: address}
}

// NewSelect builds a select property with the named option.
func NewSelect(name string) Property {
	return Property{Kind: KindSelect, Select: &Option{Name: name}}
}

// NewPhoneNumber builds a phone-number property.
func NewPhoneNumber(number string) Property {
	return Property{Kind: KindPhoneNumber, PhoneNumber: number}
}

// NewRelation builds a relation property pointing at the given record IDs.
// An empty call produces the empty relation set.
func NewRelation(ids ...string) Property {
	refs := make([]Reference, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, Reference{ID: id})
	}
	return Property{Kind: KindRelation, Relation: refs}
}
