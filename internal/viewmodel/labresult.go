package viewmodel

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Parameter is one entry of a lab result's result_data mapping. Value can be
// a number or a string; the schema is dynamic per test type.
type Parameter struct {
	Value          any    `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
}

// ResultRow is one rendered line of a result table.
type ResultRow struct {
	Parameter      string `json:"parameter"`
	Value          any    `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"reference_range"`
}

// ResultDataView is either a structured table or, when result_data is not a
// parameter mapping, a raw dump the page can show verbatim.
type ResultDataView struct {
	Rows []ResultRow `json:"rows,omitempty"`
	Raw  string      `json:"raw,omitempty"`
}

// ResultDataFrom interprets a raw result_data payload. Arbitrary parameter
// sets are supported; anything that does not decode as a mapping of
// parameter objects falls back to a pretty-printed dump.
func ResultDataFrom(raw json.RawMessage) ResultDataView {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return ResultDataView{}
	}

	var params map[string]Parameter
	if err := json.Unmarshal(raw, &params); err != nil {
		return ResultDataView{Raw: rawDump(raw)}
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]ResultRow, 0, len(names))
	for _, name := range names {
		p := params[name]
		rng := p.ReferenceRange
		if strings.TrimSpace(rng) == "" {
			rng = "Not specified"
		}
		rows = append(rows, ResultRow{
			Parameter:      name,
			Value:          p.Value,
			Unit:           p.Unit,
			ReferenceRange: rng,
		})
	}
	return ResultDataView{Rows: rows}
}

func rawDump(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
