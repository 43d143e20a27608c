// Package planner expands configured facets into the ordered list of queries
// a pipeline run issues.
//
// Ordering is part of the contract: deduplication keeps the first record seen
// for an identity key, so the same configuration must always yield the same
// query order. Opportunity queries are NAICS-major then keyword-major, with
// posting types as the inner loop. Spend queries are window-major with states
// as the inner loop.
package planner

import (
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/govcon-intel/internal/config"
	"github.com/sells-group/govcon-intel/internal/model"
)

const (
	samDateLayout   = "01/02/2006"
	spendDateLayout = "2006-01-02"
)

// Planner builds query plans from an immutable snapshot of configuration.
type Planner struct {
	sam   config.SAMConfig
	spend config.SpendConfig
	now   time.Time
}

// New snapshots cfg. now anchors every date window in the plan.
func New(cfg config.Config, now time.Time) *Planner {
	return &Planner{
		sam:   cloneSAM(cfg.SAM),
		spend: cloneSpend(cfg.Spend),
		now:   now.UTC(),
	}
}

// Opportunities returns the SAM.gov queries: every NAICS code crossed with
// every posting type, followed by every keyword crossed with every posting
// type. Blank facet values are skipped.
func (p *Planner) Opportunities() []model.Query {
	from := p.now.AddDate(0, 0, -p.sam.LookbackDays).Format(samDateLayout)
	to := p.now.Format(samDateLayout)

	var out []model.Query
	add := func(facet model.Facet, values []string) {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			for _, pt := range p.sam.PostingTypes {
				pt = strings.TrimSpace(pt)
				if pt == "" {
					continue
				}
				out = append(out, model.Query{
					Index:       len(out),
					Source:      model.SourceSAM,
					Facet:       facet,
					Value:       v,
					PostingType: pt,
					State:       p.sam.State,
					From:        from,
					To:          to,
				})
			}
		}
	}

	add(model.FacetNAICS, p.sam.NAICSCodes)
	add(model.FacetKeyword, p.sam.Keywords)
	return out
}

// Spend returns the USAspending queries: every lookback window crossed with
// every state filter. An empty state list yields one unfiltered query per
// window.
func (p *Planner) Spend() []model.Query {
	states := p.spend.States
	if len(states) == 0 {
		states = []string{""}
	}

	var out []model.Query
	for _, days := range p.spend.LookbackDays {
		if days <= 0 {
			continue
		}
		from := p.now.AddDate(0, 0, -days).Format(spendDateLayout)
		to := p.now.Format(spendDateLayout)
		for _, st := range states {
			out = append(out, model.Query{
				Index:  len(out),
				Source: model.SourceUSASpending,
				Facet:  model.FacetWindow,
				Value:  strconv.Itoa(days),
				State:  strings.TrimSpace(st),
				From:   from,
				To:     to,
			})
		}
	}
	return out
}

// MaxWindowDays returns the widest spend lookback window, or 0 if none.
func (p *Planner) MaxWindowDays() int {
	maxDays := 0
	for _, d := range p.spend.LookbackDays {
		if d > maxDays {
			maxDays = d
		}
	}
	return maxDays
}

func cloneSAM(c config.SAMConfig) config.SAMConfig {
	c.NAICSCodes = append([]string(nil), c.NAICSCodes...)
	c.Keywords = append([]string(nil), c.Keywords...)
	c.PostingTypes = append([]string(nil), c.PostingTypes...)
	return c
}

func cloneSpend(c config.SpendConfig) config.SpendConfig {
	c.NAICSCodes = append([]string(nil), c.NAICSCodes...)
	c.AwardTypeCodes = append([]string(nil), c.AwardTypeCodes...)
	c.States = append([]string(nil), c.States...)
	c.LookbackDays = append([]int(nil), c.LookbackDays...)
	return c
}
