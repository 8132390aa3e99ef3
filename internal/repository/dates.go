package repository

import (
	"strings"
	"time"
)

const (
	// WireLayout is the date format the sheet stores and expects.
	WireLayout = "02/01/2006 15:04:05"
	// SortableLayout is the normalized local form handed to the presentation layer.
	SortableLayout = "2006-01-02T15:04:05"
)

type dateRule struct {
	name    string
	layouts []string
	// zoned layouts carry their own offset and are converted to the local zone.
	zoned bool
}

// dateRules are tried in order; the first layout that parses wins.
var dateRules = []dateRule{
	{name: "iso local", layouts: []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}},
	{name: "iso zoned", layouts: []string{time.RFC3339Nano}, zoned: true},
	{name: "day first", layouts: []string{"2/1/2006 15:04:05", "2/1/2006 15:04", "2/1/2006"}},
	{name: "time first", layouts: []string{"15:04:05 2/1/2006", "15:04 2/1/2006"}},
}

// DateNormalizer reads and writes sheet dates in one fixed location.
type DateNormalizer struct {
	loc *time.Location
}

func NewDateNormalizer(loc *time.Location) DateNormalizer {
	if loc == nil {
		loc = time.Local
	}
	return DateNormalizer{loc: loc}
}

func (n DateNormalizer) Location() *time.Location {
	return n.loc
}

// Parse tries every date rule against raw. Stray quotes from sheet text
// cells are ignored.
func (n DateNormalizer) Parse(raw string) (time.Time, bool) {
	clean := strings.TrimSpace(strings.ReplaceAll(raw, "'", ""))
	if clean == "" {
		return time.Time{}, false
	}
	for _, rule := range dateRules {
		for _, layout := range rule.layouts {
			if rule.zoned {
				if t, err := time.Parse(layout, clean); err == nil {
					return t.In(n.loc), true
				}
				continue
			}
			if t, err := time.ParseInLocation(layout, clean, n.loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Normalize rewrites raw into SortableLayout. Unparseable input is
// returned unchanged.
func (n DateNormalizer) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	t, ok := n.Parse(raw)
	if !ok {
		return raw
	}
	return t.Format(SortableLayout)
}

func (n DateNormalizer) FormatWire(t time.Time) string {
	return t.In(n.loc).Format(WireLayout)
}
