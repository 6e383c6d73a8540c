package viewmodel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careorbit/careportal/internal/upstream"
)

func TestRelatedPersonPresent(t *testing.T) {
	f := RelatedPerson(&upstream.Person{
		FirstName: "Grace", LastName: "Okoro", Specialization: "Cardiology",
	}, "")
	assert.Equal(t, "Grace Okoro (Cardiology)", f.Display)
	assert.Empty(t, f.Warning)
	assert.False(t, f.Missing)
}

func TestRelatedPersonErrorMarkerOnly(t *testing.T) {
	f := RelatedPerson(nil, "identity service timeout")
	assert.Equal(t, "identity service timeout", f.Warning)
	// An explicit error must never be papered over with "N/A".
	assert.NotEqual(t, NotAvailable, f.Display)
	assert.Empty(t, f.Display)
}

func TestRelatedPersonBothPresent(t *testing.T) {
	f := RelatedPerson(&upstream.Person{FirstName: "A", LastName: "B", UserType: "patient"}, "stale identity")
	assert.Equal(t, "A B (patient)", f.Display)
	assert.Equal(t, "stale identity", f.Warning)
}

func TestRelatedPersonAbsent(t *testing.T) {
	f := RelatedPerson(nil, "")
	assert.Equal(t, NotAvailable, f.Display)
	assert.True(t, f.Missing)
}

func TestPersonNameFallbacks(t *testing.T) {
	assert.Equal(t, "N/A", PersonName(nil))
	assert.Equal(t, "jdoe", PersonName(&upstream.Person{Username: "jdoe"}))
	assert.Equal(t, "Jo Doe (doctor)", PersonName(&upstream.Person{
		FirstName: "Jo", LastName: "Doe", UserType: "doctor",
	}))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "N/A", OrDefault("  "))
	assert.Equal(t, "x", OrDefault("x"))
}

func TestResultDataFromMapping(t *testing.T) {
	raw := json.RawMessage(`{
		"Hemoglobin": {"value": 14.2, "unit": "g/dL", "reference_range": "13.5-17.5"},
		"Appearance": {"value": "clear"}
	}`)
	view := ResultDataFrom(raw)
	require.Len(t, view.Rows, 2)
	assert.Empty(t, view.Raw)

	// Rows come back sorted by parameter name.
	assert.Equal(t, "Appearance", view.Rows[0].Parameter)
	assert.Equal(t, "clear", view.Rows[0].Value)
	assert.Equal(t, "Not specified", view.Rows[0].ReferenceRange)

	assert.Equal(t, "Hemoglobin", view.Rows[1].Parameter)
	assert.Equal(t, 14.2, view.Rows[1].Value)
	assert.Equal(t, "g/dL", view.Rows[1].Unit)
	assert.Equal(t, "13.5-17.5", view.Rows[1].ReferenceRange)
}

func TestResultDataFromNonMappingFallsBack(t *testing.T) {
	view := ResultDataFrom(json.RawMessage(`["not","a","mapping"]`))
	assert.Empty(t, view.Rows)
	assert.Contains(t, view.Raw, "not")

	view = ResultDataFrom(json.RawMessage(`{"flat": 3}`))
	assert.Empty(t, view.Rows)
	assert.NotEmpty(t, view.Raw)
}

func TestResultDataFromEmpty(t *testing.T) {
	assert.Empty(t, ResultDataFrom(nil).Rows)
	assert.Empty(t, ResultDataFrom(json.RawMessage(`null`)).Raw)
}

func TestVitalsSummarySkipsUnmeasured(t *testing.T) {
	temp := 37.0
	hr := 72.0
	sys := 120.0
	dia := 80.0
	v := upstream.VitalsRecord{
		TemperatureCelsius:    &temp,
		HeartRateBPM:          &hr,
		BloodPressureSystolic: &sys, BloodPressureDiastolic: &dia,
		Notes: "resting",
	}
	got := VitalsSummary(v)
	assert.Equal(t, []string{
		"Temperature: 37 °C",
		"Blood Pressure: 120/80 mmHg",
		"Heart Rate: 72 bpm",
		"Notes: resting",
	}, got)

	assert.Empty(t, VitalsSummary(upstream.VitalsRecord{}))
}
