// Package notion implements the resilient client for the workspace database
// API: four remote operations wrapped with request pacing and a classified
// retry policy.
package notion

import (
	"github.com/agentstation/utc"

	"github.com/hmoraleda/relink/pkg/properties"
)

// Page is one record in a workspace database collection. Identifiers are
// opaque and assigned by the remote store.
type Page struct {
	Object         string                         `json:"object,omitempty"`
	ID             string                         `json:"id"`
	CreatedTime    utc.Time                       `json:"created_time,omitzero"`
	LastEditedTime utc.Time                       `json:"last_edited_time,omitzero"`
	Archived       bool                           `json:"archived,omitempty"`
	URL            string                         `json:"url,omitempty"`
	Properties     map[string]properties.Property `json:"properties"`
}

// Property returns the named property value and whether it exists.
func (p *Page) Property(name string) (properties.Property, bool) {
	prop, ok := p.Properties[name]
	return prop, ok
}

// PageList is one page of a paginated query response.
type PageList struct {
	Object     string `json:"object"`
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Query is the body of a filtered, paginated database query.
type Query struct {
	Filter      *Filter `json:"filter,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

// Filter is a single-property query predicate. Exactly one condition field
// is set, matching the property's kind.
type Filter struct {
	Property string             `json:"property"`
	Title    *TextCondition     `json:"title,omitempty"`
	Relation *RelationCondition `json:"relation,omitempty"`
}

// TextCondition matches title or rich-text values.
type TextCondition struct {
	Equals string `json:"equals,omitempty"`
}

// RelationCondition matches relation values.
type RelationCondition struct {
	IsEmpty bool `json:"is_empty,omitempty"`
}

// createPageRequest is the body of a record create call.
type createPageRequest struct {
	Parent     pageParent                     `json:"parent"`
	Properties map[string]properties.Property `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

// updatePageRequest is the body of a partial record update call.
type updatePageRequest struct {
	Properties map[string]properties.Property `json:"properties"`
}

// apiErrorBody is the error envelope the remote API returns on failure.
type apiErrorBody struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
