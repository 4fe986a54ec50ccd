package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lexsync_app_go/models"
)

// CalendarSyncResult summarizes a best-effort calendar sync. Failure is
// signaled via Success=false; the adapter never returns an error.
type CalendarSyncResult struct {
	Success bool   `json:"success"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// CalendarSyncer pushes a case's deadlines and important dates to a
// calendar backend
type CalendarSyncer interface {
	Sync(userID string, rec *models.CaseRecord) CalendarSyncResult
}

// ICSCalendarSync is the default adapter: it materializes one all-day
// ICS event file per deadline/important date under a per-user directory
type ICSCalendarSync struct {
	baseDir string
}

func NewICSCalendarSync(baseDir string) *ICSCalendarSync {
	return &ICSCalendarSync{baseDir: baseDir}
}

// Sync writes event files for every dated entry on the case. Entries
// whose file already exists are skipped, completed deadlines are
// skipped, and any filesystem failure flips Success without aborting
// the remaining events.
func (c *ICSCalendarSync) Sync(userID string, rec *models.CaseRecord) CalendarSyncResult {
	result := CalendarSyncResult{Success: true}

	dir := filepath.Join(c.baseDir, userID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("[CALENDAR] Failed to create calendar directory for user %s: %v", userID, err)
		return CalendarSyncResult{Success: false, Message: "calendar directory unavailable"}
	}

	caseKey := strings.ToUpper(rec.CaseID)

	for _, dl := range rec.Deadlines {
		if dl.Completed || dl.DueDate == "" {
			result.Skipped++
			continue
		}
		c.writeEvent(dir, caseKey, "deadline", dl.Title, dl.DueDate, &result)
	}

	for _, id := range rec.ImportantDates {
		if id.Date == "" {
			result.Skipped++
			continue
		}
		c.writeEvent(dir, caseKey, "date", id.Title, id.Date, &result)
	}

	if result.Message == "" {
		result.Message = fmt.Sprintf("%d events created, %d skipped", result.Created, result.Skipped)
	}
	return result
}

func (c *ICSCalendarSync) writeEvent(dir, caseKey, kind, title, date string, result *CalendarSyncResult) {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.ics", caseKey, kind, slugify(title)+"_"+date))
	if _, err := os.Stat(path); err == nil {
		result.Skipped++
		return
	}

	content, err := buildAllDayICS(caseKey, title, date)
	if err != nil {
		log.Printf("[CALENDAR] Skipping event %q for case %s: %v", title, caseKey, err)
		result.Skipped++
		return
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		log.Printf("[CALENDAR] Failed to write event %q for case %s: %v", title, caseKey, err)
		result.Success = false
		result.Message = "some events could not be written"
		return
	}
	result.Created++
}

// buildAllDayICS generates an all-day VEVENT for a normalized date
func buildAllDayICS(caseKey, title, date string) ([]byte, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid event date %q: %w", date, err)
	}

	dtStamp := time.Now().UTC().Format("20060102T150405Z")
	dtStart := day.Format("20060102")
	dtEnd := day.AddDate(0, 0, 1).Format("20060102")
	uid := fmt.Sprintf("%s-%s-%s@lexsync", caseKey, slugify(title), dtStart)

	const icsTemplate = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//LexSync//CaseSync//EN
CALSCALE:GREGORIAN
METHOD:PUBLISH
BEGIN:VEVENT
UID:%s
DTSTAMP:%s
DTSTART;VALUE=DATE:%s
DTEND;VALUE=DATE:%s
SUMMARY:%s
DESCRIPTION:Case %s
STATUS:CONFIRMED
END:VEVENT
END:VCALENDAR`

	content := fmt.Sprintf(icsTemplate,
		uid,
		dtStamp,
		dtStart,
		dtEnd,
		escapeICSText(title),
		caseKey,
	)
	return []byte(content), nil
}

func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "event"
	}
	return slug
}
