// Package aggregate reduces awards into ranked spend buckets.
package aggregate

import (
	"sort"
	"strings"

	"github.com/sells-group/govcon-intel/internal/model"
)

// Unknown is the bucket name for awards with no grouping value.
const Unknown = "Unknown"

// Field selects the grouping value of an award.
type Field func(model.Award) string

// ByRecipient groups awards by recipient name.
func ByRecipient(a model.Award) string { return a.RecipientName }

// ByAgency groups awards by awarding agency.
func ByAgency(a model.Award) string { return a.AwardingAgency }

// Top sums TotalObligation per group and returns the topN groups by value,
// descending. Groups with equal sums keep the order in which they were first
// encountered. topN <= 0 yields an empty slice.
func Top(awards []model.Award, field Field, topN int) []model.Bucket {
	if topN <= 0 {
		return []model.Bucket{}
	}

	index := make(map[string]int)
	buckets := make([]model.Bucket, 0)
	for _, a := range awards {
		name := strings.TrimSpace(field(a))
		if name == "" {
			name = Unknown
		}
		i, ok := index[name]
		if !ok {
			i = len(buckets)
			index[name] = i
			buckets = append(buckets, model.Bucket{Name: name})
		}
		buckets[i].Value += a.TotalObligation
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Value > buckets[j].Value
	})

	if len(buckets) > topN {
		buckets = buckets[:topN]
	}
	return buckets
}
