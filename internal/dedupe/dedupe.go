// Package dedupe merges records surfaced by overlapping queries.
package dedupe

import (
	"strconv"

	"github.com/sells-group/govcon-intel/internal/model"
)

// By keeps the first record for each key, in encounter order. Records whose
// key is empty are dropped.
func By[T any](records []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Opportunities deduplicates on the identity key derived at normalization.
func Opportunities(records []model.Opportunity) []model.Opportunity {
	return By(records, func(o model.Opportunity) string { return o.Key })
}

// Awards deduplicates on the award identity key. Awards without one are all
// kept since dropping them would silently lose obligated dollars.
func Awards(records []model.Award) []model.Award {
	anon := 0
	return By(records, func(a model.Award) string {
		if a.Key != "" {
			return "id:" + a.Key
		}
		anon++
		return "anon:" + strconv.Itoa(anon)
	})
}
