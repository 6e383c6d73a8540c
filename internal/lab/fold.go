package lab

import (
	"strconv"
	"strings"

	"github.com/careorbit/careportal/internal/viewmodel"
)

// EntryRow is one submitted line of the structured parameter table.
type EntryRow struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
}

// Fold collapses submitted rows into the result_data mapping keyed by
// parameter name. Numeric-looking values become numbers; everything else is
// kept as the raw string. Folding never fails: blank rows are skipped and a
// duplicate name keeps the last row.
func Fold(rows []EntryRow) map[string]viewmodel.Parameter {
	out := make(map[string]viewmodel.Parameter, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		out[name] = viewmodel.Parameter{
			Value:          coerceValue(row.Value),
			Unit:           strings.TrimSpace(row.Unit),
			ReferenceRange: strings.TrimSpace(row.ReferenceRange),
		}
	}
	return out
}

// coerceValue tries a numeric parse first and falls back to the raw string.
func coerceValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return trimmed
}
