// Package normalize maps raw API records onto the fixed output schemas.
// Every function here is pure and total: any map, however sparse or oddly
// typed, produces a fully populated record.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/govcon-intel/internal/model"
)

// First returns the first candidate field holding a usable scalar, rendered
// as a trimmed string. Absent keys, nulls, objects, arrays and blank strings
// are skipped.
func First(raw model.RawRecord, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := scalarString(raw[k]); ok {
			return s, true
		}
	}
	return "", false
}

// FirstOr is First with a default.
func FirstOr(raw model.RawRecord, def string, keys ...string) string {
	if s, ok := First(raw, keys...); ok {
		return s
	}
	return def
}

// FirstPtr is First returning nil when no candidate is usable.
func FirstPtr(raw model.RawRecord, keys ...string) *string {
	if s, ok := First(raw, keys...); ok {
		return &s
	}
	return nil
}

// FirstNumber returns the first candidate that coerces to a finite number,
// or 0 when none does.
func FirstNumber(raw model.RawRecord, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := toFloat(raw[k]); ok {
			return f
		}
	}
	return 0
}

// FoldName collapses internal whitespace and applies NFC so that names that
// render identically group together.
func FoldName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), t.String() != ""
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(t))
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
