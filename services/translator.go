package services

import (
	"strings"

	"lexsync_app_go/models"
)

// Defaults used when optional fields are missing. Both translation
// directions are total functions: they never fail, they substitute.
const (
	DefaultCourt    = "Not specified"
	DefaultCaseType = "Not specified"
)

// partySeparator joins/splits the combined MCD client string.
// "Acme S.A. vs. Juan Pérez" -> plaintiff "Acme S.A.", defendant "Juan Pérez".
const partySeparator = " vs. "

// ToMasterCaseDocument translates the canonical record into the
// document-store dialect. The status translation goes through a fixed
// table and is lossy in the reverse direction (see status.go); a record
// that round-trips through the MCD dialect can come back with a
// different but equivalent status.
func ToMasterCaseDocument(rec *models.CaseRecord, userID string) *models.MasterCaseDocument {
	doc := &models.MasterCaseDocument{
		CaseID:       strings.ToUpper(rec.CaseID),
		UserID:       userID,
		Client:       joinParties(rec.Plaintiff, rec.Defendant),
		OtherParties: models.Strings(rec.OtherParties),
		Court:        orDefault(rec.Court, DefaultCourt),
		CaseType:     orDefault(rec.CaseType, DefaultCaseType),
		Attorney:     rec.Attorney,
		Status:       ToMCDStatus(rec.Status),

		Deadlines:      models.DeadlineList(rec.Deadlines),
		ImportantDates: models.ImportantDateList(rec.ImportantDates),
		RecentActivity: models.ActivityList(rec.RecentActivity),

		IsDeleted: rec.IsDeleted,
		DeletedAt: rec.DeletedAt,
		DeletedBy: rec.DeletedBy,

		RadicadoCPNU:          rec.RadicadoCPNU,
		LinkedCPNU:            rec.LinkedCPNU,
		CPNUBootstrapDone:     rec.CPNUBootstrapDone,
		CPNUBootstrapAt:       rec.CPNUBootstrapAt,
		CPNUBootstrapBy:       rec.CPNUBootstrapBy,
		CPNUActuaciones:       models.ActuacionList(rec.CPNUActuaciones),
		CPNULastFechaRegistro: rec.CPNULastFechaRegistro,

		Version: rec.Version,
	}

	if rec.LastAction != nil {
		doc.LastActionTitle = rec.LastAction.Title
		doc.LastActionDate = rec.LastAction.Date
	}

	return doc
}

// FromMasterCaseDocument translates a document-store record back into
// the canonical Dashboard Template shape. Party fields are derived
// heuristically from the combined client string: without the " vs. "
// separator the whole string is the plaintiff.
func FromMasterCaseDocument(doc *models.MasterCaseDocument) *models.CaseRecord {
	plaintiff, defendant := splitParties(doc.Client)

	rec := &models.CaseRecord{
		CaseID:       doc.CaseID,
		Plaintiff:    plaintiff,
		Defendant:    defendant,
		OtherParties: []string(doc.OtherParties),
		Court:        orDefault(doc.Court, DefaultCourt),
		CaseType:     orDefault(doc.CaseType, DefaultCaseType),
		Attorney:     doc.Attorney,
		Status:       ToDashboardStatus(doc.Status),

		Deadlines:      []models.Deadline(doc.Deadlines),
		ImportantDates: []models.ImportantDate(doc.ImportantDates),
		RecentActivity: []models.ActivityEntry(doc.RecentActivity),

		IsDeleted: doc.IsDeleted,
		DeletedAt: doc.DeletedAt,
		DeletedBy: doc.DeletedBy,

		RadicadoCPNU:          doc.RadicadoCPNU,
		LinkedCPNU:            doc.LinkedCPNU,
		CPNUBootstrapDone:     doc.CPNUBootstrapDone,
		CPNUBootstrapAt:       doc.CPNUBootstrapAt,
		CPNUBootstrapBy:       doc.CPNUBootstrapBy,
		CPNUActuaciones:       []models.Actuacion(doc.CPNUActuaciones),
		CPNULastFechaRegistro: doc.CPNULastFechaRegistro,

		Version:   doc.Version,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}

	if doc.LastActionTitle != "" || doc.LastActionDate != "" {
		rec.LastAction = &models.LastAction{
			Title: doc.LastActionTitle,
			Date:  doc.LastActionDate,
		}
	}

	return rec
}

func joinParties(plaintiff, defendant string) string {
	plaintiff = strings.TrimSpace(plaintiff)
	defendant = strings.TrimSpace(defendant)
	if defendant == "" {
		return plaintiff
	}
	return plaintiff + partySeparator + defendant
}

func splitParties(client string) (plaintiff, defendant string) {
	parts := strings.SplitN(client, partySeparator, 2)
	plaintiff = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		defendant = strings.TrimSpace(parts[1])
	}
	return plaintiff, defendant
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
