// Package viewmodel turns aggregation envelopes into display-ready values.
// Every place a backend embeds a related entity next to a `_..._error`
// sibling marker goes through the one formatter here, so partial data always
// renders the same way: entity if present, warning if the merge failed,
// "N/A" only when there is genuinely nothing to say.
package viewmodel

import (
	"strings"

	"github.com/careorbit/careportal/internal/upstream"
)

// NotAvailable is rendered when a related entity is absent without an
// explicit error marker.
const NotAvailable = "N/A"

// Field is a rendered related-entity slot.
type Field struct {
	// Display is the human-readable form, or "N/A" when nothing loaded.
	Display string `json:"display"`
	// Warning carries the aggregation error marker; it is never fatal.
	Warning string `json:"warning,omitempty"`
	// Missing is true when neither the entity nor a marker was present.
	Missing bool `json:"missing,omitempty"`
}

// RelatedPerson renders an embedded person and its error marker. A present
// entity always wins the display; an error marker is always surfaced as a
// warning; "N/A" never overrides an explicit error.
func RelatedPerson(p *upstream.Person, errMarker string) Field {
	errMarker = strings.TrimSpace(errMarker)
	if p != nil {
		return Field{Display: PersonName(p), Warning: errMarker}
	}
	if errMarker != "" {
		return Field{Warning: errMarker}
	}
	return Field{Display: NotAvailable, Missing: true}
}

// PersonName renders "First Last (qualifier)". The qualifier prefers a
// specialization, then the user type.
func PersonName(p *upstream.Person) string {
	if p == nil {
		return NotAvailable
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		name = p.Username
	}
	if name == "" {
		return NotAvailable
	}
	qualifier := p.Specialization
	if qualifier == "" {
		qualifier = p.UserType
	}
	if qualifier != "" {
		return name + " (" + qualifier + ")"
	}
	return name
}

// OrDefault renders an optional string field, substituting "N/A".
func OrDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}
