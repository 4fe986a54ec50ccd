package services

import (
	"fmt"
	"testing"
	"time"

	"lexsync_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestMergeFreshCreate(t *testing.T) {
	incoming := &models.CaseRecord{
		CaseID:    "1001",
		Plaintiff: "Acme",
		Status:    models.DashboardStatusActive,
	}

	merged := MergeCaseRecords(nil, incoming)

	assert.Equal(t, 1, merged.Version)
	assert.False(t, merged.CreatedAt.IsZero())
	assert.False(t, merged.UpdatedAt.IsZero())
	// The input is cloned, never aliased
	merged.Plaintiff = "Changed"
	assert.Equal(t, "Acme", incoming.Plaintiff)
}

func TestMergeDeadlinesAdditive(t *testing.T) {
	existing := &models.CaseRecord{
		CaseID:    "1001",
		Plaintiff: "Acme",
		Status:    models.DashboardStatusActive,
		Version:   1,
		Deadlines: []models.Deadline{
			{Title: "File response", DueDate: "2025-11-01", CaseID: "1001"},
		},
	}
	incoming := &models.CaseRecord{
		CaseID:    "1001",
		Plaintiff: "Acme",
		Status:    models.DashboardStatusActive,
		Deadlines: []models.Deadline{
			// Same title and date as the existing entry, different casing
			{Title: "FILE RESPONSE", DueDate: "2025-11-01", CaseID: "1001"},
			{Title: "Appeal deadline", DueDate: "2025-12-01", CaseID: "1001"},
		},
	}

	merged := MergeCaseRecords(existing, incoming)

	assert.Len(t, merged.Deadlines, 2)
	// The existing entry survives untouched; the duplicate is dropped
	assert.Equal(t, "File response", merged.Deadlines[0].Title)
	assert.Equal(t, "Appeal deadline", merged.Deadlines[1].Title)
	assert.Equal(t, 2, merged.Version)
}

func TestMergeSameTitleDifferentDateIsNew(t *testing.T) {
	existing := &models.CaseRecord{
		CaseID: "1001", Plaintiff: "Acme", Status: "active", Version: 1,
		Deadlines: []models.Deadline{{Title: "Hearing", DueDate: "2025-11-01"}},
	}
	incoming := &models.CaseRecord{
		CaseID: "1001", Plaintiff: "Acme", Status: "active",
		Deadlines: []models.Deadline{{Title: "Hearing", DueDate: "2025-12-01"}},
	}

	merged := MergeCaseRecords(existing, incoming)
	assert.Len(t, merged.Deadlines, 2)
}

func TestMergeImportantDatesAdditive(t *testing.T) {
	existing := &models.CaseRecord{
		CaseID: "1001", Plaintiff: "Acme", Status: "active", Version: 4,
		ImportantDates: []models.ImportantDate{{Title: "Audiencia", Date: "2025-10-05"}},
	}
	incoming := &models.CaseRecord{
		CaseID: "1001", Plaintiff: "Acme", Status: "active",
		ImportantDates: []models.ImportantDate{
			{Title: "audiencia", Date: "2025-10-05"},
			{Title: "Inspección", Date: "2025-10-20"},
		},
	}

	merged := MergeCaseRecords(existing, incoming)
	assert.Len(t, merged.ImportantDates, 2)
	assert.Equal(t, 5, merged.Version)
}

func TestMergeEmptyActivityKeepsExisting(t *testing.T) {
	existing := &models.CaseRecord{
		CaseID: "1001", Plaintiff: "Acme", Status: "active", Version: 1,
		RecentActivity: []models.ActivityEntry{
			{ID: "a", Message: "Created", Time: time.Now().Format(time.RFC3339)},
		},
	}
	incoming := &models.CaseRecord{CaseID: "1001", Plaintiff: "Acme", Status: "active"}

	merged := MergeCaseRecords(existing, incoming)
	assert.Len(t, merged.RecentActivity, 1)
	assert.Equal(t, "Created", merged.RecentActivity[0].Message)
}

func TestMergeStatusChangeSynthesizesActivity(t *testing.T) {
	existing := &models.CaseRecord{CaseID: "1001", Plaintiff: "Acme", Status: "active", Version: 1}
	incoming := &models.CaseRecord{CaseID: "1001", Plaintiff: "Acme", Status: "urgent"}

	merged := MergeCaseRecords(existing, incoming)

	assert.NotEmpty(t, merged.RecentActivity)
	assert.Equal(t, "Status changed from active to urgent", merged.RecentActivity[0].Message)
	assert.NotEmpty(t, merged.RecentActivity[0].ID)
}

func TestMergeActivityBounded(t *testing.T) {
	existing := &models.CaseRecord{CaseID: "1001", Plaintiff: "Acme", Status: "active", Version: 1}
	for i := 0; i < models.MaxRecentActivity; i++ {
		existing.RecentActivity = append(existing.RecentActivity, models.ActivityEntry{
			ID:      fmt.Sprintf("e%d", i),
			Message: fmt.Sprintf("Entry %d", i),
		})
	}
	incoming := &models.CaseRecord{CaseID: "1001", Plaintiff: "Acme", Status: "urgent"}

	merged := MergeCaseRecords(existing, incoming)

	assert.Len(t, merged.RecentActivity, models.MaxRecentActivity)
	// Newest first: the synthesized transition entry pushes the oldest out
	assert.Equal(t, "Status changed from active to urgent", merged.RecentActivity[0].Message)
	assert.Equal(t, "Entry 8", merged.RecentActivity[models.MaxRecentActivity-1].Message)
}

func TestMergePreservesBootstrapState(t *testing.T) {
	at := time.Now().Add(-time.Hour)
	by := "admin@example.com"
	existing := &models.CaseRecord{
		CaseID: "1001", Plaintiff: "Acme", Status: "active", Version: 2,
		RadicadoCPNU:      "11001310300020240012300",
		LinkedCPNU:        true,
		CPNUBootstrapDone: true,
		CPNUBootstrapAt:   &at,
		CPNUBootstrapBy:   &by,
		CPNUActuaciones: []models.Actuacion{
			{IDRegActuacion: "501", Actuacion: "Auto admisorio"},
		},
		CPNULastFechaRegistro: "2025-09-01",
	}
	// A plain save that says nothing about the registry state
	incoming := &models.CaseRecord{CaseID: "1001", Plaintiff: "Acme", Status: "active"}

	merged := MergeCaseRecords(existing, incoming)

	assert.True(t, merged.CPNUBootstrapDone)
	assert.True(t, merged.LinkedCPNU)
	assert.Equal(t, "11001310300020240012300", merged.RadicadoCPNU)
	assert.Equal(t, &by, merged.CPNUBootstrapBy)
	assert.Len(t, merged.CPNUActuaciones, 1)
	assert.Equal(t, "2025-09-01", merged.CPNULastFechaRegistro)
}

func TestMergeActuaciones(t *testing.T) {
	existing := []models.Actuacion{
		{IDRegActuacion: "501", Actuacion: "Auto admisorio"},
		{IDRegActuacion: "502", Actuacion: "Notificación"},
	}
	incoming := []models.Actuacion{
		{IDRegActuacion: "502", Actuacion: "Notificación (updated text)"},
		{IDRegActuacion: "503", Actuacion: "Sentencia"},
	}

	merged := MergeActuaciones(existing, incoming)

	assert.Len(t, merged, 3)
	// Existing entries are never replaced
	assert.Equal(t, "Notificación", merged[1].Actuacion)
	assert.Equal(t, "503", merged[2].IDRegActuacion)
}
