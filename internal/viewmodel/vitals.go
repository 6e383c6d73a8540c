package viewmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/careorbit/careportal/internal/upstream"
)

// VitalsSummary renders the measured fields of one vitals record, in a
// stable order. Absent fields mean "not measured" and are skipped entirely.
func VitalsSummary(v upstream.VitalsRecord) []string {
	var out []string

	if v.TemperatureCelsius != nil {
		out = append(out, "Temperature: "+trimFloat(*v.TemperatureCelsius)+" °C")
	}
	if v.BloodPressureSystolic != nil || v.BloodPressureDiastolic != nil {
		out = append(out, fmt.Sprintf("Blood Pressure: %s/%s mmHg",
			orDash(v.BloodPressureSystolic), orDash(v.BloodPressureDiastolic)))
	}
	if v.HeartRateBPM != nil {
		out = append(out, "Heart Rate: "+trimFloat(*v.HeartRateBPM)+" bpm")
	}
	if v.RespiratoryRateBPM != nil {
		out = append(out, "Respiratory Rate: "+trimFloat(*v.RespiratoryRateBPM)+" bpm")
	}
	if v.OxygenSaturationPercentage != nil {
		out = append(out, "O2 Saturation: "+trimFloat(*v.OxygenSaturationPercentage)+"%")
	}
	if strings.TrimSpace(v.Notes) != "" {
		out = append(out, "Notes: "+v.Notes)
	}
	return out
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orDash(f *float64) string {
	if f == nil {
		return "-"
	}
	return trimFloat(*f)
}
