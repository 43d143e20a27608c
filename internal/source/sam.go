package source

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/govcon-intel/internal/config"
	"github.com/sells-group/govcon-intel/internal/fetcher"
	"github.com/sells-group/govcon-intel/internal/model"
)

// ErrMissingCredential reports that the SAM.gov API key is not configured.
var ErrMissingCredential = eris.New("sam: API key not configured (set SAM_API_KEY)")

// SAM queries the SAM.gov Opportunities v2 search API.
type SAM struct {
	f   fetcher.Fetcher
	cfg config.SAMConfig
}

// NewSAM creates a SAM.gov client. A missing API key is not an error here;
// check Configured before a run.
func NewSAM(f fetcher.Fetcher, cfg config.SAMConfig) *SAM {
	return &SAM{f: f, cfg: cfg}
}

// Configured reports whether an API key is available.
func (s *SAM) Configured() bool { return s.cfg.APIKey != "" }

// samResponse is the subset of the search response we read.
type samResponse struct {
	TotalRecords      int   `json:"totalRecords"`
	OpportunitiesData []any `json:"opportunitiesData"`
}

// Fetch issues one GET for q.
func (s *SAM) Fetch(ctx context.Context, q model.Query) model.Result {
	if !s.Configured() {
		return model.Failed(q, ErrMissingCredential)
	}

	rawURL, err := s.URL(q)
	if err != nil {
		return model.Failed(q, err)
	}

	return fetch(ctx, q,
		func(ctx context.Context) (io.ReadCloser, error) { return s.f.Download(ctx, rawURL) },
		func(r io.Reader) ([]model.RawRecord, error) {
			resp, err := fetcher.DecodeJSONObject[samResponse](r)
			if err != nil {
				return nil, eris.Wrap(err, "sam: decode response")
			}
			return objects(resp.OpportunitiesData), nil
		},
	)
}

// URL builds the search URL for q.
func (s *SAM) URL(q model.Query) (string, error) {
	u, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", eris.Wrapf(err, "sam: parse base url %q", s.cfg.BaseURL)
	}

	params := u.Query()
	params.Set("api_key", s.cfg.APIKey)
	params.Set("limit", strconv.Itoa(s.cfg.Limit))
	params.Set("postedFrom", q.From)
	params.Set("postedTo", q.To)
	if q.PostingType != "" {
		params.Set("ptype", q.PostingType)
	}
	if q.State != "" {
		params.Set("state", q.State)
	}
	switch q.Facet {
	case model.FacetNAICS:
		params.Set("ncode", q.Value)
	case model.FacetKeyword:
		params.Set("title", q.Value)
	default:
		return "", eris.Errorf("sam: unsupported facet %q", q.Facet)
	}

	u.RawQuery = params.Encode()
	return u.String(), nil
}
