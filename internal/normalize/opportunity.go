package normalize

import "github.com/sells-group/govcon-intel/internal/model"

// Defaults substituted when a SAM.gov record omits a field.
const (
	DefaultTitle          = "Untitled Opportunity"
	DefaultSolicitationID = "N/A"
	DefaultAgency         = "Unknown Agency"
	DefaultLink           = "#"
)

// OpportunityKey derives the identity key used to recognize the same
// solicitation across queries. Empty means the record is unidentifiable.
func OpportunityKey(raw model.RawRecord) string {
	return FirstOr(raw, "", "solicitationNumber", "noticeId", "title")
}

// Opportunity normalizes one SAM.gov opportunitiesData entry.
func Opportunity(raw model.RawRecord) model.Opportunity {
	return model.Opportunity{
		Title:            FirstOr(raw, DefaultTitle, "title"),
		SolicitationID:   FirstOr(raw, DefaultSolicitationID, "solicitationNumber", "solicitationId"),
		Agency:           FirstOr(raw, DefaultAgency, "department", "fullParentPathName", "office"),
		PostedDate:       FirstPtr(raw, "postedDate"),
		ResponseDeadline: FirstPtr(raw, "responseDeadLine", "archiveDate"),
		Link:             FirstOr(raw, DefaultLink, "uiLink"),
		Description:      FirstOr(raw, "", "description"),
		SetAside:         FirstOr(raw, "", "typeOfSetAsideDescription", "typeOfSetAside"),
		Key:              OpportunityKey(raw),
	}
}

// Opportunities normalizes a batch, preserving order.
func Opportunities(raws []model.RawRecord) []model.Opportunity {
	out := make([]model.Opportunity, 0, len(raws))
	for _, r := range raws {
		out = append(out, Opportunity(r))
	}
	return out
}
