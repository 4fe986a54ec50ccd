package services

import (
	"strings"

	"lexsync_app_go/models"
)

// statusAliases maps free-text tokens (English and Spanish, any case) to
// their canonical lowercase status in either taxonomy. Kept as a single
// explicit table so gaps are test-time visible.
var statusAliases = map[string]string{
	// Dashboard taxonomy
	"active":    models.DashboardStatusActive,
	"activo":    models.DashboardStatusActive,
	"activa":    models.DashboardStatusActive,
	"pending":   models.DashboardStatusPending,
	"pendiente": models.DashboardStatusPending,
	"urgent":    models.DashboardStatusUrgent,
	"urgente":   models.DashboardStatusUrgent,

	// MCD taxonomy
	"new":                   models.MCDStatusNew,
	"nuevo":                 models.MCDStatusNew,
	"nueva":                 models.MCDStatusNew,
	"review":                models.MCDStatusReview,
	"revision":              models.MCDStatusReview,
	"revisión":              models.MCDStatusReview,
	"en revision":           models.MCDStatusReview,
	"en revisión":           models.MCDStatusReview,
	"in_progress":           models.MCDStatusInProgress,
	"in progress":           models.MCDStatusInProgress,
	"en progreso":           models.MCDStatusInProgress,
	"en curso":              models.MCDStatusInProgress,
	"appeals":               models.MCDStatusAppeals,
	"apelacion":             models.MCDStatusAppeals,
	"apelación":             models.MCDStatusAppeals,
	"en apelacion":          models.MCDStatusAppeals,
	"en apelación":          models.MCDStatusAppeals,
	"pending_decision":      models.MCDStatusPendingDecision,
	"pending decision":      models.MCDStatusPendingDecision,
	"pendiente de decision": models.MCDStatusPendingDecision,
	"pendiente de decisión": models.MCDStatusPendingDecision,
	"fallo pendiente":       models.MCDStatusPendingDecision,
	"closed":                models.MCDStatusClosed,
	"cerrado":               models.MCDStatusClosed,
	"cerrada":               models.MCDStatusClosed,
	"archivado":             models.MCDStatusClosed,
}

// dashboardToMCD is the fixed Dashboard(3) -> MCD(6) mapping
var dashboardToMCD = map[string]string{
	models.DashboardStatusActive:  models.MCDStatusInProgress,
	models.DashboardStatusPending: models.MCDStatusPendingDecision,
	models.DashboardStatusUrgent:  models.MCDStatusReview,
}

// mcdToDashboard is the fixed MCD(6) -> Dashboard(3) mapping. It is lossy:
// both in_progress and appeals collapse onto active, so a B->A->B round
// trip of "appeals" yields "in_progress". This is an accepted limitation
// of the two-dialect design, not something to be silently corrected.
var mcdToDashboard = map[string]string{
	models.MCDStatusNew:             models.DashboardStatusPending,
	models.MCDStatusReview:          models.DashboardStatusUrgent,
	models.MCDStatusInProgress:      models.DashboardStatusActive,
	models.MCDStatusAppeals:         models.DashboardStatusActive,
	models.MCDStatusPendingDecision: models.DashboardStatusPending,
	models.MCDStatusClosed:          models.DashboardStatusPending,
}

// NormalizeStatus maps an arbitrary-case, possibly Spanish status token to
// its canonical lowercase form. Unknown tokens pass through unchanged; a
// caller that needs validation must separately check set membership.
// Normalizing an already-canonical token returns it unchanged.
func NormalizeStatus(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := statusAliases[token]; ok {
		return canonical
	}
	return raw
}

// ToMCDStatus translates a Dashboard status to the MCD taxonomy.
// Tokens already in the MCD set pass through; anything unknown defaults
// to "new" so the translation stays total.
func ToMCDStatus(status string) string {
	status = NormalizeStatus(status)
	if mcd, ok := dashboardToMCD[status]; ok {
		return mcd
	}
	if models.IsValidMCDStatus(status) {
		return status
	}
	return models.MCDStatusNew
}

// ToDashboardStatus translates an MCD status to the Dashboard taxonomy.
// Tokens already in the Dashboard set pass through; anything unknown
// defaults to "pending" so the translation stays total.
func ToDashboardStatus(status string) string {
	status = NormalizeStatus(status)
	if dash, ok := mcdToDashboard[status]; ok {
		return dash
	}
	if models.IsValidDashboardStatus(status) {
		return status
	}
	return models.DashboardStatusPending
}
