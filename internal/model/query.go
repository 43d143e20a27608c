package model

import (
	"fmt"
	"strings"
)

// Source identifies the external API a query is issued against.
type Source string

const (
	SourceSAM         Source = "sam"
	SourceUSASpending Source = "usaspending"
)

// Facet names the query dimension that distinguishes one query from its siblings.
type Facet string

const (
	FacetNAICS   Facet = "naics"
	FacetKeyword Facet = "keyword"
	FacetWindow  Facet = "window"
)

// Query fully determines one outbound request. Queries are produced by the
// planner and are never mutated afterwards.
type Query struct {
	Index       int    `json:"index"` // position in the plan; drives first-seen dedup
	Source      Source `json:"source"`
	Facet       Facet  `json:"facet"`
	Value       string `json:"value"`                  // NAICS code, keyword term, or lookback days
	PostingType string `json:"posting_type,omitempty"` // SAM only
	State       string `json:"state,omitempty"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// String returns a stable label for logs, e.g. "sam/naics=236220/ptype=o".
func (q Query) String() string {
	parts := []string{string(q.Source), fmt.Sprintf("%s=%s", q.Facet, q.Value)}
	if q.PostingType != "" {
		parts = append(parts, "ptype="+q.PostingType)
	}
	if q.State != "" {
		parts = append(parts, "state="+q.State)
	}
	return strings.Join(parts, "/")
}
