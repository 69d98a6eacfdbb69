// Package normalize converts raw table text into typed values: decimal
// amounts, local calendar dates, bid statuses, and equipment classes. All
// functions tolerate empty and garbage input.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/WillyAmmm/Quote-Logger/internal/record"
)

var (
	nonNumeric = regexp.MustCompile(`[^0-9.-]`)
	sizeSuffix = regexp.MustCompile(`\s*-\s*\d+\s*ft\b`)

	dryVanRe    = regexp.MustCompile(`dry\s*van|van`)
	conestogaRe = regexp.MustCompile(`curtain|curtainside|conestoga`)
	stepDeckRe  = regexp.MustCompile(`step\s*deck`)
	flatbedRe   = regexp.MustCompile(`flatbed`)
	reeferRe    = regexp.MustCompile(`reefer|refrigerated`)
	rgnRe       = regexp.MustCompile(`rgn|double\s*drop|dd\b`)
	oversizedRe = regexp.MustCompile(`oversized(\s+equipment)?`)
)

// timestampLayouts is the ordered set of formats the source table has been
// seen to render. Slash dates are month-first; that ambiguity is inherited
// from the source and pinned by tests rather than resolved here.
var timestampLayouts = []string{
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseAmount strips everything that is not a digit, sign, or decimal point
// and parses the remainder as a decimal. Returns nil for empty, garbage, or
// non-finite input.
func ParseAmount(text string) *float64 {
	cleaned := nonNumeric.ReplaceAllString(text, "")
	if cleaned == "" {
		return nil
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return nil
	}
	return &n
}

// ParseTimestamp parses a source timestamp into an instant. Layouts without
// a zone are taken as local wall-clock time; zoned layouts are converted to
// local. Reports false when no layout matches.
func ParseTimestamp(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t.In(time.Local), true
		}
	}
	return time.Time{}, false
}

// ParseCalendarDate normalizes any parseable date/time text to the local
// YYYY-MM-DD calendar date. Returns "" when unparseable. The local date is
// authoritative: no UTC normalization, matching how the source displays
// times.
func ParseCalendarDate(text string) string {
	t, ok := ParseTimestamp(text)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// MapStatus maps raw bid status text to a Status via case-insensitive
// substring matching. Unknown or empty input maps to Pending so that odd
// rows surface for review instead of being dropped.
func MapStatus(text string) record.Status {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "rejected"):
		return record.StatusLost
	case strings.Contains(s, "awarded"):
		return record.StatusWon
	case strings.Contains(s, "removed"):
		return record.StatusEnded
	case strings.Contains(s, "pending"), strings.Contains(s, "submitted"):
		return record.StatusPending
	default:
		return record.StatusPending
	}
}

// MapEquipment normalizes an equipment description. A trailing size suffix
// like "- 53 FT" is stripped first, then ordered keyword groups are tried;
// the order matters because some keywords are substrings of broader
// descriptions (e.g. "van" inside "dry van").
func MapEquipment(text string) record.Equipment {
	base := strings.TrimSpace(sizeSuffix.ReplaceAllString(strings.ToLower(text), ""))
	switch {
	case dryVanRe.MatchString(base):
		return record.EquipmentDryVan
	case conestogaRe.MatchString(base):
		return record.EquipmentConestoga
	case stepDeckRe.MatchString(base):
		return record.EquipmentStepDeck
	case flatbedRe.MatchString(base):
		return record.EquipmentFlatbed
	case reeferRe.MatchString(base):
		return record.EquipmentReefer
	case rgnRe.MatchString(base):
		return record.EquipmentRGNDD
	case oversizedRe.MatchString(base):
		return record.EquipmentOversized
	default:
		return record.EquipmentOther
	}
}
