package booking

import (
	"regexp"
	"strconv"

	"cutesalon/models"
)

// DefaultDurationMinutes is the documented fallback when a treatment is not
// in the catalog or its entry carries no parseable minutes token. Entries
// expressed purely in hours (e.g. "1 hr") also fall back here; that matches
// the catalog convention as shipped.
const DefaultDurationMinutes = 20

var minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(min|mins)`)

// DurationResolver maps treatment names to appointment minutes using the
// catalog snapshot it was constructed with.
type DurationResolver struct {
	sections []models.TreatmentSection
}

// NewDurationResolver builds a resolver over the given read-only catalog.
func NewDurationResolver(sections []models.TreatmentSection) *DurationResolver {
	return &DurationResolver{sections: sections}
}

// Resolve returns the duration in minutes for the named treatment. It scans
// sections, then treatments, then child options; the first name match wins.
// It never fails: unknown names and unparseable durations resolve to the
// default.
func (r *DurationResolver) Resolve(treatmentName string) int {
	for _, section := range r.sections {
		for _, treat := range section.Treatments {
			if treat.Name == treatmentName {
				return extractMinutes(treat.Time)
			}
			for _, child := range treat.Children {
				// Child options embed their duration in the display name.
				if child.Name == treatmentName {
					return extractMinutes(child.Name)
				}
			}
		}
	}
	return DefaultDurationMinutes
}

// TotalMinutes sums the resolved durations of all selected treatments.
func (r *DurationResolver) TotalMinutes(treatments []models.TreatmentSelection) int {
	total := 0
	for _, t := range treatments {
		total += r.Resolve(t.Name)
	}
	return total
}

func extractMinutes(text string) int {
	match := minutesPattern.FindStringSubmatch(text)
	if match == nil {
		return DefaultDurationMinutes
	}
	mins, err := strconv.Atoi(match[1])
	if err != nil {
		return DefaultDurationMinutes
	}
	return mins
}
