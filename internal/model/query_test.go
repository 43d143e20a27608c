package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryString(t *testing.T) {
	t.Parallel()

	q := Query{Source: SourceSAM, Facet: FacetNAICS, Value: "236220", PostingType: "o", State: "HI"}
	assert.Equal(t, "sam/naics=236220/ptype=o/state=HI", q.String())

	w := Query{Source: SourceUSASpending, Facet: FacetWindow, Value: "1825"}
	assert.Equal(t, "usaspending/window=1825", w.String())
}

func TestResultOk(t *testing.T) {
	t.Parallel()

	q := Query{Index: 3}
	assert.True(t, Result{Query: q}.Ok())

	failed := Failed(q, errors.New("boom"))
	assert.False(t, failed.Ok())
	assert.Empty(t, failed.Records)
	assert.Equal(t, 3, failed.Query.Index)
}

func TestEmptyDocumentsEncodeAsEmptyCollections(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(EmptyOpportunities())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(EmptySpend("2025-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"meta": {"generatedAt": "2025-01-01T00:00:00Z", "queryWindowDays": 0, "recordCount": 0},
		"topCompetitors": [],
		"topAgencies": []
	}`, string(data))
}

func TestOpportunityKeyNotSerialized(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Opportunity{Title: "x", Key: "SOL-1"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "SOL-1")
	assert.Contains(t, string(data), `"postedDate":null`)
}
