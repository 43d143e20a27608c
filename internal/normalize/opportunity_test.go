package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/govcon-intel/internal/model"
)

func strPtr(s string) *string { return &s }

func TestOpportunity_FullRecord(t *testing.T) {
	raw := model.RawRecord{
		"noticeId":                  "abc123",
		"title":                     "Elevator Modernization",
		"solicitationNumber":        "W9128A-25-R-0001",
		"department":                "DEPT OF DEFENSE",
		"office":                    "W074 ENDIST HONOLULU",
		"postedDate":                "2025-02-01",
		"responseDeadLine":          "2025-03-01T14:00:00-10:00",
		"archiveDate":               "2025-03-16",
		"uiLink":                    "https://sam.gov/opp/abc123/view",
		"description":               "https://api.sam.gov/prod/opportunities/v1/noticedesc?noticeid=abc123",
		"typeOfSetAsideDescription": " Total Small Business Set-Aside (FAR 19.5) ",
	}

	got := Opportunity(raw)
	assert.Equal(t, model.Opportunity{
		Title:            "Elevator Modernization",
		SolicitationID:   "W9128A-25-R-0001",
		Agency:           "DEPT OF DEFENSE",
		PostedDate:       strPtr("2025-02-01"),
		ResponseDeadline: strPtr("2025-03-01T14:00:00-10:00"),
		Link:             "https://sam.gov/opp/abc123/view",
		Description:      "https://api.sam.gov/prod/opportunities/v1/noticedesc?noticeid=abc123",
		SetAside:         "Total Small Business Set-Aside (FAR 19.5)",
		Key:              "W9128A-25-R-0001",
	}, got)
}

func TestOpportunity_EmptyRecordUsesDefaults(t *testing.T) {
	got := Opportunity(model.RawRecord{})
	assert.Equal(t, DefaultTitle, got.Title)
	assert.Equal(t, DefaultSolicitationID, got.SolicitationID)
	assert.Equal(t, DefaultAgency, got.Agency)
	assert.Nil(t, got.PostedDate)
	assert.Nil(t, got.ResponseDeadline)
	assert.Equal(t, DefaultLink, got.Link)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.SetAside)
	assert.Empty(t, got.Key)

	assert.Equal(t, got, Opportunity(nil))
}

func TestOpportunity_SecondChoiceFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		raw   model.RawRecord
		check func(t *testing.T, o model.Opportunity)
	}{
		{
			name: "solicitationId",
			raw:  model.RawRecord{"solicitationId": "SOL-2"},
			check: func(t *testing.T, o model.Opportunity) {
				assert.Equal(t, "SOL-2", o.SolicitationID)
			},
		},
		{
			name: "agency",
			raw:  model.RawRecord{"fullParentPathName": "GSA.PBS"},
			check: func(t *testing.T, o model.Opportunity) {
				assert.Equal(t, "GSA.PBS", o.Agency)
			},
		},
		{
			name: "agency third choice",
			raw:  model.RawRecord{"office": "PACIFIC DIVISION"},
			check: func(t *testing.T, o model.Opportunity) {
				assert.Equal(t, "PACIFIC DIVISION", o.Agency)
			},
		},
		{
			name: "responseDeadline",
			raw:  model.RawRecord{"archiveDate": "2025-01-01"},
			check: func(t *testing.T, o model.Opportunity) {
				require.NotNil(t, o.ResponseDeadline)
				assert.Equal(t, "2025-01-01", *o.ResponseDeadline)
			},
		},
		{
			name: "setAside",
			raw:  model.RawRecord{"typeOfSetAside": "SBA"},
			check: func(t *testing.T, o model.Opportunity) {
				assert.Equal(t, "SBA", o.SetAside)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Opportunity(tt.raw))
		})
	}
}

func TestOpportunity_NullAndBlankAreAbsent(t *testing.T) {
	raw := model.RawRecord{
		"department":       nil,
		"office":           "   ",
		"responseDeadLine": nil,
		"archiveDate":      "2025-06-30",
		"uiLink":           "",
		"title":            map[string]any{"nested": true},
	}

	got := Opportunity(raw)
	assert.Equal(t, DefaultAgency, got.Agency)
	require.NotNil(t, got.ResponseDeadline)
	assert.Equal(t, "2025-06-30", *got.ResponseDeadline)
	assert.Equal(t, DefaultLink, got.Link)
	assert.Equal(t, DefaultTitle, got.Title)
}

func TestOpportunityKey(t *testing.T) {
	tests := []struct {
		name string
		raw  model.RawRecord
		want string
	}{
		{"solicitation wins", model.RawRecord{"solicitationNumber": "SOL-1", "noticeId": "N-1", "title": "T"}, "SOL-1"},
		{"notice fallback", model.RawRecord{"noticeId": "N-1", "title": "T"}, "N-1"},
		{"title fallback", model.RawRecord{"title": "Roof Repair"}, "Roof Repair"},
		{"blank solicitation skipped", model.RawRecord{"solicitationNumber": " ", "noticeId": "N-2"}, "N-2"},
		{"numeric notice", model.RawRecord{"noticeId": float64(12345)}, "12345"},
		{"unidentifiable", model.RawRecord{"department": "DOD"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpportunityKey(tt.raw))
		})
	}
}

func TestOpportunity_Deterministic(t *testing.T) {
	raw := model.RawRecord{"title": "x", "noticeId": "n", "postedDate": "2025-01-01"}
	assert.Equal(t, Opportunity(raw), Opportunity(raw))
}

func TestOpportunities_PreservesOrder(t *testing.T) {
	got := Opportunities([]model.RawRecord{{"title": "a"}, {"title": "b"}})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "b", got[1].Title)
	assert.NotNil(t, Opportunities(nil))
}
