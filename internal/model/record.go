package model

// RawRecord is one untyped object as returned by an external API. Nothing
// about its shape is guaranteed.
type RawRecord map[string]any

// Result is the outcome of a single query. A failed result never carries
// records; callers treat it as "no data for this query".
type Result struct {
	Query   Query
	Records []RawRecord
	Err     error
}

// Ok reports whether the query succeeded.
func (r Result) Ok() bool { return r.Err == nil }

// Failed builds a failed result for q.
func Failed(q Query, err error) Result {
	return Result{Query: q, Err: err}
}
