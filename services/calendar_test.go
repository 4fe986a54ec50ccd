package services

import (
	"os"
	"path/filepath"
	"testing"

	"lexsync_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestICSCalendarSync(t *testing.T) {
	dir := t.TempDir()
	syncer := NewICSCalendarSync(dir)

	rec := &models.CaseRecord{
		CaseID: "1001",
		Deadlines: []models.Deadline{
			{Title: "File response", DueDate: "2025-11-01"},
			{Title: "Old deadline", DueDate: "2025-01-15", Completed: true},
		},
		ImportantDates: []models.ImportantDate{
			{Title: "Audiencia inicial", Date: "2025-10-05"},
		},
	}

	result := syncer.Sync("u1", rec)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Created)
	// The completed deadline is skipped
	assert.Equal(t, 1, result.Skipped)

	entries, err := os.ReadDir(filepath.Join(dir, "u1"))
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestICSCalendarSyncIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	syncer := NewICSCalendarSync(dir)

	rec := &models.CaseRecord{
		CaseID:    "1001",
		Deadlines: []models.Deadline{{Title: "File response", DueDate: "2025-11-01"}},
	}

	first := syncer.Sync("u1", rec)
	assert.Equal(t, 1, first.Created)

	second := syncer.Sync("u1", rec)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)
}

func TestICSCalendarSyncEventContent(t *testing.T) {
	dir := t.TempDir()
	syncer := NewICSCalendarSync(dir)

	rec := &models.CaseRecord{
		CaseID:    "1001",
		Deadlines: []models.Deadline{{Title: "File response; urgent", DueDate: "2025-11-01"}},
	}

	result := syncer.Sync("u1", rec)
	assert.Equal(t, 1, result.Created)

	entries, err := os.ReadDir(filepath.Join(dir, "u1"))
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	content, err := os.ReadFile(filepath.Join(dir, "u1", entries[0].Name()))
	assert.NoError(t, err)

	ics := string(content)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20251101")
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20251102")
	// Semicolons in the title are escaped per the ICS grammar
	assert.Contains(t, ics, `SUMMARY:File response\; urgent`)
	assert.Contains(t, ics, "DESCRIPTION:Case 1001")
}

func TestICSCalendarSyncSkipsUndatedEntries(t *testing.T) {
	syncer := NewICSCalendarSync(t.TempDir())

	rec := &models.CaseRecord{
		CaseID:         "1001",
		Deadlines:      []models.Deadline{{Title: "No date yet"}},
		ImportantDates: []models.ImportantDate{{Title: "Also undated"}},
	}

	result := syncer.Sync("u1", rec)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"File Response", "file-response"},
		{"  Audiencia Inicial  ", "audiencia-inicial"},
		{"Q4/2025 (review)", "q42025-review"},
		{"¡¡¡", "event"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, slugify(tt.input))
	}
}
