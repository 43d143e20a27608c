package source

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/govcon-intel/internal/config"
	"github.com/sells-group/govcon-intel/internal/fetcher"
	"github.com/sells-group/govcon-intel/internal/model"
)

// AwardFields are the columns requested from spending_by_award.
var AwardFields = []string{
	"Award ID",
	"Recipient Name",
	"Total Obligation",
	"Awarding Agency",
	"Description",
	"Date Signed",
}

// USASpending queries the USAspending spending_by_award search API.
type USASpending struct {
	f   fetcher.Fetcher
	cfg config.SpendConfig
}

// NewUSASpending creates a USAspending client.
func NewUSASpending(f fetcher.Fetcher, cfg config.SpendConfig) *USASpending {
	return &USASpending{f: f, cfg: cfg}
}

type usaResponse struct {
	Results []any `json:"results"`
}

// Fetch issues one POST for q.
func (c *USASpending) Fetch(ctx context.Context, q model.Query) model.Result {
	payload := c.Payload(q)
	return fetch(ctx, q,
		func(ctx context.Context) (io.ReadCloser, error) { return c.f.PostJSON(ctx, c.cfg.BaseURL, payload) },
		func(r io.Reader) ([]model.RawRecord, error) {
			resp, err := fetcher.DecodeJSONObject[usaResponse](r)
			if err != nil {
				return nil, eris.Wrap(err, "usaspending: decode response")
			}
			return objects(resp.Results), nil
		},
	)
}

// Payload builds the filter/field/sort request body for q.
func (c *USASpending) Payload(q model.Query) map[string]any {
	filters := map[string]any{
		"time_period":      []map[string]string{{"start_date": q.From, "end_date": q.To}},
		"award_type_codes": c.cfg.AwardTypeCodes,
	}
	if len(c.cfg.NAICSCodes) > 0 {
		filters["naics_codes"] = map[string]any{"require": c.cfg.NAICSCodes}
	}
	if q.State != "" {
		filters["place_of_performance_locations"] = []map[string]string{{"country": "USA", "state": q.State}}
	}

	return map[string]any{
		"filters": filters,
		"fields":  AwardFields,
		"page":    1,
		"limit":   c.cfg.Limit,
		"sort":    "Total Obligation",
		"order":   "desc",
	}
}
