package model

// Opportunity is a normalized SAM.gov solicitation.
type Opportunity struct {
	Title            string  `json:"title"`
	SolicitationID   string  `json:"solicitationId"`
	Agency           string  `json:"agency"`
	PostedDate       *string `json:"postedDate"`
	ResponseDeadline *string `json:"responseDeadline"`
	Link             string  `json:"link"`
	Description      string  `json:"description"`
	SetAside         string  `json:"setAside"`

	// Key is the identity key derived from the raw record. Empty when the
	// record cannot be identified.
	Key string `json:"-"`
}

// OpportunityDocument is the persisted opportunities artifact: a top-level
// JSON array in discovery order.
type OpportunityDocument []Opportunity

// EmptyOpportunities returns a document that encodes as [] rather than null.
func EmptyOpportunities() OpportunityDocument {
	return OpportunityDocument{}
}
