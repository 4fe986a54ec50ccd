package services

import (
	"log"
	"strings"
	"time"

	"lexsync_app_go/models"
)

const canonicalDateLayout = "2006-01-02"

// Fallback layouts for loosely-formatted input, tried in order after the
// canonical and DD-MM-YYYY checks
var looseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// NormalizeDate parses a date in one of the accepted shapes and returns
// the canonical YYYY-MM-DD string. Accepted inputs: a canonical string,
// a DD-MM-YYYY string, a loosely-parseable string, or a time.Time.
// Formatting uses the parsed calendar date as-is, never a UTC shift, so
// a date entered in Bogota does not come back one day off.
func NormalizeDate(value interface{}) (string, error) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return "", &DateFormatError{Value: "zero time"}
		}
		return v.Format(canonicalDateLayout), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return "", &DateFormatError{Value: "nil time"}
		}
		return v.Format(canonicalDateLayout), nil
	case string:
		return normalizeDateString(v)
	default:
		return "", &DateFormatError{Value: "unsupported type"}
	}
}

func normalizeDateString(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &DateFormatError{Value: raw}
	}

	// 1. Already canonical: validate calendar correctness (time.Parse
	// rejects impossible dates like 2025-02-30) and pass through.
	if t, err := time.Parse(canonicalDateLayout, s); err == nil {
		return t.Format(canonicalDateLayout), nil
	}

	// 2. DD-MM-YYYY: reconstruct and validate
	if t, err := time.Parse("02-01-2006", s); err == nil {
		return t.Format(canonicalDateLayout), nil
	}

	// 3. Generic parse attempts
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout), nil
		}
	}

	return "", &DateFormatError{Value: raw}
}

// scrubCaseDates normalizes every date field on the record in place.
// Unparseable dates are logged and dropped individually; one bad date
// must never reject an otherwise-valid submission.
func scrubCaseDates(rec *models.CaseRecord) {
	if rec.LastAction != nil {
		if d, err := NormalizeDate(rec.LastAction.Date); err == nil {
			rec.LastAction.Date = d
		} else if rec.LastAction.Date != "" {
			log.Printf("[SYNC] Dropping unparseable last_action date for case %s: %v", rec.CaseID, err)
			rec.LastAction.Date = ""
		}
	}

	deadlines := rec.Deadlines[:0]
	for _, dl := range rec.Deadlines {
		d, err := NormalizeDate(dl.DueDate)
		if err != nil {
			log.Printf("[SYNC] Dropping deadline %q with unparseable due date for case %s: %v", dl.Title, rec.CaseID, err)
			continue
		}
		dl.DueDate = d
		deadlines = append(deadlines, dl)
	}
	rec.Deadlines = deadlines

	dates := rec.ImportantDates[:0]
	for _, id := range rec.ImportantDates {
		d, err := NormalizeDate(id.Date)
		if err != nil {
			log.Printf("[SYNC] Dropping important date %q with unparseable date for case %s: %v", id.Title, rec.CaseID, err)
			continue
		}
		id.Date = d
		dates = append(dates, id)
	}
	rec.ImportantDates = dates
}
