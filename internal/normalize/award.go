package normalize

import "github.com/sells-group/govcon-intel/internal/model"

// AwardKey derives the identity key of an award row: the unique
// generated_internal_id, else the PIID. Empty means the row is unidentifiable.
func AwardKey(raw model.RawRecord) string {
	return FirstOr(raw, "", "generated_internal_id", "Award ID")
}

// Award normalizes one USAspending spending_by_award result row. Names used
// for grouping are folded with FoldName.
func Award(raw model.RawRecord) model.Award {
	return model.Award{
		AwardID:         FirstOr(raw, "", "Award ID", "generated_internal_id"),
		RecipientName:   FoldName(FirstOr(raw, "", "Recipient Name")),
		TotalObligation: FirstNumber(raw, "Total Obligation", "Award Amount"),
		AwardingAgency:  FoldName(FirstOr(raw, "", "Awarding Agency", "Awarding Sub Agency")),
		Description:     FirstOr(raw, "", "Description"),
		DateSigned:      FirstPtr(raw, "Date Signed", "Start Date"),
		Key:             AwardKey(raw),
	}
}

// Awards normalizes a batch, preserving order.
func Awards(raws []model.RawRecord) []model.Award {
	out := make([]model.Award, 0, len(raws))
	for _, r := range raws {
		out = append(out, Award(r))
	}
	return out
}
