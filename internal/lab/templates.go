// Package lab provides the result-entry templates the lab technician
// dashboard pre-populates its parameter table from, and the folding rule
// that turns edited rows into a result_data mapping.
package lab

// TemplateRow is one pre-populated parameter line. Users edit the value and
// may append arbitrary custom rows.
type TemplateRow struct {
	Name           string `json:"name"`
	DefaultUnit    string `json:"default_unit,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
}

// Template is a named set of parameters for a common test type.
type Template struct {
	Name string        `json:"name"`
	Rows []TemplateRow `json:"rows"`
}

var templates = []Template{
	{
		Name: "Complete Blood Count",
		Rows: []TemplateRow{
			{Name: "Hemoglobin", DefaultUnit: "g/dL", ReferenceRange: "13.5-17.5"},
			{Name: "White Blood Cells", DefaultUnit: "10^9/L", ReferenceRange: "4.0-11.0"},
			{Name: "Platelets", DefaultUnit: "10^9/L", ReferenceRange: "150-400"},
			{Name: "Hematocrit", DefaultUnit: "%", ReferenceRange: "38.3-48.6"},
		},
	},
	{
		Name: "Basic Metabolic Panel",
		Rows: []TemplateRow{
			{Name: "Glucose", DefaultUnit: "mg/dL", ReferenceRange: "70-100"},
			{Name: "Calcium", DefaultUnit: "mg/dL", ReferenceRange: "8.5-10.2"},
			{Name: "Sodium", DefaultUnit: "mmol/L", ReferenceRange: "135-145"},
			{Name: "Potassium", DefaultUnit: "mmol/L", ReferenceRange: "3.5-5.0"},
			{Name: "Creatinine", DefaultUnit: "mg/dL", ReferenceRange: "0.6-1.3"},
		},
	},
	{
		Name: "Urinalysis",
		Rows: []TemplateRow{
			{Name: "Color"},
			{Name: "Turbidity"},
			{Name: "pH", ReferenceRange: "4.5-8.0"},
			{Name: "Protein", DefaultUnit: "mg/dL", ReferenceRange: "0-14"},
		},
	},
}

// Templates returns every known template, in stable order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByName finds a template by its exact name.
func TemplateByName(name string) (Template, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
