package services

import (
	"fmt"
	"strings"
	"time"

	"lexsync_app_go/models"

	"github.com/google/uuid"
)

// MergeCaseRecords reconciles an incoming save against the existing
// record. Collections are additive: entries are unioned by composite
// key, existing entries are never overwritten, and nothing shrinks
// through this path. A nil existing record means a fresh create; the
// incoming record (already normalized) is returned as-is with its
// collections bounded.
func MergeCaseRecords(existing, incoming *models.CaseRecord) *models.CaseRecord {
	merged := incoming.Clone()
	now := time.Now()

	if existing == nil {
		merged.Version = 1
		merged.CreatedAt = now
		merged.UpdatedAt = now
		if len(merged.RecentActivity) > models.MaxRecentActivity {
			merged.RecentActivity = merged.RecentActivity[:models.MaxRecentActivity]
		}
		return merged
	}

	statusChanged := existing.Status != merged.Status

	// Deadlines: union by (title, due_date). Existing entries keep
	// their position and are never replaced by an incoming twin.
	merged.Deadlines = mergeDeadlines(existing.Deadlines, incoming.Deadlines)

	// Important dates: union by (title, date)
	merged.ImportantDates = mergeImportantDates(existing.ImportantDates, incoming.ImportantDates)

	// Recent activity: an incoming save without entries keeps the
	// existing log. A status transition gets a synthesized entry
	// prepended before the bound is applied.
	if len(incoming.RecentActivity) == 0 {
		merged.RecentActivity = append([]models.ActivityEntry(nil), existing.RecentActivity...)
	}
	if statusChanged {
		entry := models.ActivityEntry{
			ID:      uuid.New().String(),
			Message: fmt.Sprintf("Status changed from %s to %s", existing.Status, merged.Status),
			Time:    now.Format(time.RFC3339),
		}
		merged.RecentActivity = append([]models.ActivityEntry{entry}, merged.RecentActivity...)
	}
	if len(merged.RecentActivity) > models.MaxRecentActivity {
		merged.RecentActivity = merged.RecentActivity[:models.MaxRecentActivity]
	}

	// Bootstrap state is a one-way latch: once set on the existing
	// record it always survives the merge, along with the frozen
	// registry fields a plain save must not clear.
	if existing.CPNUBootstrapDone {
		merged.RadicadoCPNU = existing.RadicadoCPNU
		merged.LinkedCPNU = existing.LinkedCPNU
		merged.CPNUBootstrapDone = true
		merged.CPNUBootstrapAt = existing.CPNUBootstrapAt
		merged.CPNUBootstrapBy = existing.CPNUBootstrapBy
		merged.CPNUActuaciones = append([]models.Actuacion(nil), existing.CPNUActuaciones...)
		merged.CPNULastFechaRegistro = existing.CPNULastFechaRegistro
	}

	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = now
	merged.Version = existing.Version + 1

	return merged
}

func deadlineKey(d models.Deadline) string {
	return strings.ToLower(strings.TrimSpace(d.Title)) + "|" + d.DueDate
}

func mergeDeadlines(existing, incoming []models.Deadline) []models.Deadline {
	merged := append([]models.Deadline(nil), existing...)
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[deadlineKey(d)] = true
	}
	for _, d := range incoming {
		if seen[deadlineKey(d)] {
			continue
		}
		seen[deadlineKey(d)] = true
		merged = append(merged, d)
	}
	return merged
}

func importantDateKey(d models.ImportantDate) string {
	return strings.ToLower(strings.TrimSpace(d.Title)) + "|" + d.Date
}

func mergeImportantDates(existing, incoming []models.ImportantDate) []models.ImportantDate {
	merged := append([]models.ImportantDate(nil), existing...)
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[importantDateKey(d)] = true
	}
	for _, d := range incoming {
		if seen[importantDateKey(d)] {
			continue
		}
		seen[importantDateKey(d)] = true
		merged = append(merged, d)
	}
	return merged
}

// MergeActuaciones unions registry actions by idRegActuacion, additive
// only. Used by both the bootstrap import and the nightly refresh.
func MergeActuaciones(existing, incoming []models.Actuacion) []models.Actuacion {
	merged := append([]models.Actuacion(nil), existing...)
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.IDRegActuacion] = true
	}
	for _, a := range incoming {
		if a.IDRegActuacion != "" && seen[a.IDRegActuacion] {
			continue
		}
		seen[a.IDRegActuacion] = true
		merged = append(merged, a)
	}
	return merged
}
