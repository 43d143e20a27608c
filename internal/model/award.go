package model

// Award is a normalized USAspending award row.
type Award struct {
	AwardID         string  `json:"awardId"`
	RecipientName   string  `json:"recipientName"`
	TotalObligation float64 `json:"totalObligation"`
	AwardingAgency  string  `json:"awardingAgency"`
	Description     string  `json:"description"`
	DateSigned      *string `json:"dateSigned"`

	// Key is the unique award identity used for deduplication. The display
	// PIID in AwardID is not unique: task orders under different parent
	// contracts reuse values such as "0001".
	Key string `json:"-"`
}

// Bucket is one aggregated group: the summed obligation for a grouping value.
type Bucket struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SpendMeta describes how a spend document was produced.
type SpendMeta struct {
	GeneratedAt     string   `json:"generatedAt"`
	QueryWindowDays int      `json:"queryWindowDays"`
	RecordCount     int      `json:"recordCount"`
	StartDate       string   `json:"startDate,omitempty"`
	EndDate         string   `json:"endDate,omitempty"`
	NAICSCodes      []string `json:"naicsCodes,omitempty"`
	States          []string `json:"states,omitempty"`
}

// SpendDocument is the persisted spend-intelligence artifact.
type SpendDocument struct {
	Meta           SpendMeta `json:"meta"`
	TopCompetitors []Bucket  `json:"topCompetitors"`
	TopAgencies    []Bucket  `json:"topAgencies"`
}

// EmptySpend returns a zeroed document with non-nil bucket slices.
func EmptySpend(generatedAt string) SpendDocument {
	return SpendDocument{
		Meta:           SpendMeta{GeneratedAt: generatedAt},
		TopCompetitors: []Bucket{},
		TopAgencies:    []Bucket{},
	}
}
