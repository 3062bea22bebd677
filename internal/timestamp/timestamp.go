// Package timestamp turns ISO-8601 record timestamps into display strings in a
// fixed civil timezone.
package timestamp

import (
	"log"
	"strings"
	"time"
	_ "time/tzdata" // zone data must not depend on the host
)

// DefaultZone is the zone chat logs are displayed in unless configured otherwise.
const DefaultZone = "Pacific/Auckland"

// DisplayLayout is the rendered form: YYYY-MM-DD HH:MM:SS.
const DisplayLayout = "2006-01-02 15:04:05"

// Layouts without an offset are interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalizer converts timestamps into Location.
type Normalizer struct {
	Location *time.Location
}

// New returns a Normalizer for the named IANA zone. An unknown zone falls
// back to UTC with a warning.
func New(zone string) Normalizer {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		log.Printf("warning: unknown timezone %q, using UTC: %v", zone, err)
		loc = time.UTC
	}
	return Normalizer{Location: loc}
}

// Format renders s as YYYY-MM-DD HH:MM:SS in the normalizer's zone.
// Anything that does not parse is returned unchanged.
func (n Normalizer) Format(s string) string {
	t, ok := Parse(s)
	if !ok {
		return s
	}
	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}

// Parse reads an ISO-8601 timestamp, accepting a literal Z suffix as UTC.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
