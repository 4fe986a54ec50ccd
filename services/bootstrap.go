package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lexsync_app_go/config"
	"lexsync_app_go/models"
	"lexsync_app_go/services/judicial"

	"github.com/google/uuid"
)

// BootstrapSync performs the one-time import of frozen fields from the
// judicial registry. Preconditions: the case exists, is not
// soft-deleted, and has never been bootstrapped. The latch and the
// frozen fields are applied together: a failure between scraping and
// persisting leaves the latch unset so the import can be retried.
func (e *CaseSyncEngine) BootstrapSync(ctx context.Context, userID, caseID, radicado, requestedBy string) (*models.CaseRecord, error) {
	if e.registry == nil {
		return nil, fmt.Errorf("no registry provider configured")
	}
	if err := judicial.ValidateRadicado(radicado); err != nil {
		return nil, mapScrapeError(err)
	}

	mu := e.lockFor(userID, caseID)
	mu.Lock()
	defer mu.Unlock()

	located := e.locator.Locate(userID, caseID)
	rec := located.Authoritative()
	if rec == nil {
		return nil, &NotFoundError{CaseID: strings.ToUpper(caseID)}
	}
	if rec.CPNUBootstrapDone {
		return nil, &AlreadyBootstrappedError{CaseID: strings.ToUpper(caseID)}
	}

	timeout := time.Duration(e.cfg.ScrapeTimeoutSecs) * time.Second
	scrapeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := e.registry.Scrape(scrapeCtx, radicado)
	if err != nil {
		return nil, mapScrapeError(err)
	}

	now := time.Now()
	updated := rec.Clone()
	applyFrozenFields(updated, result)

	imported := 0
	var actuaciones []models.Actuacion
	for _, act := range result.Actuaciones {
		actuaciones = append(actuaciones, registryActionToActuacion(act))
	}
	before := len(updated.CPNUActuaciones)
	updated.CPNUActuaciones = MergeActuaciones(updated.CPNUActuaciones, actuaciones)
	imported = len(updated.CPNUActuaciones) - before
	updated.CPNULastFechaRegistro = latestFechaRegistro(updated.CPNUActuaciones)

	updated.RadicadoCPNU = radicado
	updated.LinkedCPNU = true
	updated.CPNUBootstrapDone = true
	updated.CPNUBootstrapAt = &now
	if requestedBy != "" {
		by := requestedBy
		updated.CPNUBootstrapBy = &by
	}

	entry := models.ActivityEntry{
		ID:      uuid.New().String(),
		Message: fmt.Sprintf("Linked to registry radicado %s, imported %d actuaciones", radicado, imported),
		Time:    now.Format(time.RFC3339),
	}
	updated.RecentActivity = append([]models.ActivityEntry{entry}, updated.RecentActivity...)
	if len(updated.RecentActivity) > models.MaxRecentActivity {
		updated.RecentActivity = updated.RecentActivity[:models.MaxRecentActivity]
	}

	updated.Version = rec.Version + 1
	updated.UpdatedAt = now

	// Primary write. If this fails the latch was never persisted and
	// the bootstrap stays retryable.
	if _, err := e.files.Write(userID, updated); err != nil {
		return nil, err
	}

	doc := ToMasterCaseDocument(updated, userID)
	doc.CPNUDetails = models.JSONMap{
		"office":       result.DatosProceso.Despacho,
		"department":   result.DatosProceso.Departamento,
		"judge":        result.DatosProceso.Ponente,
		"process_type": result.DatosProceso.TipoProceso,
		"is_private":   result.DatosProceso.EsPrivado,
	}
	if err := e.store.Upsert(doc); err != nil {
		log.Printf("[SYNC] %v", &PartialWriteError{Effect: "mcd_sync", Err: err})
	}

	if e.notifier != nil {
		e.notifier.BootstrapCompleted(userID, updated, imported)
	}

	return updated, nil
}

// RefreshActuaciones re-scrapes the registry for an already-linked case
// and appends any new actuaciones. Frozen fields are never touched
// again; this path is additive only. Returns the number of imported
// actions.
func (e *CaseSyncEngine) RefreshActuaciones(ctx context.Context, userID, caseID string) (int, error) {
	if e.registry == nil {
		return 0, fmt.Errorf("no registry provider configured")
	}

	mu := e.lockFor(userID, caseID)
	mu.Lock()
	defer mu.Unlock()

	located := e.locator.Locate(userID, caseID)
	rec := located.Authoritative()
	if rec == nil {
		return 0, &NotFoundError{CaseID: strings.ToUpper(caseID)}
	}
	if !rec.CPNUBootstrapDone || rec.RadicadoCPNU == "" {
		return 0, fmt.Errorf("case %s is not linked to the registry", caseID)
	}

	timeout := time.Duration(e.cfg.ScrapeTimeoutSecs) * time.Second
	scrapeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := e.registry.Scrape(scrapeCtx, rec.RadicadoCPNU)
	if err != nil {
		return 0, mapScrapeError(err)
	}

	var incoming []models.Actuacion
	for _, act := range result.Actuaciones {
		incoming = append(incoming, registryActionToActuacion(act))
	}

	updated := rec.Clone()
	before := len(updated.CPNUActuaciones)
	updated.CPNUActuaciones = MergeActuaciones(updated.CPNUActuaciones, incoming)
	imported := len(updated.CPNUActuaciones) - before
	if imported == 0 {
		return 0, nil
	}

	now := time.Now()
	updated.CPNULastFechaRegistro = latestFechaRegistro(updated.CPNUActuaciones)
	updated.Version = rec.Version + 1
	updated.UpdatedAt = now

	if _, err := e.files.Write(userID, updated); err != nil {
		return 0, err
	}
	if err := e.store.Upsert(ToMasterCaseDocument(updated, userID)); err != nil {
		log.Printf("[SYNC] %v", &PartialWriteError{Effect: "mcd_sync", Err: err})
	}

	return imported, nil
}

// applyFrozenFields sets the registry-derived attributes: court, case
// type, parties, and attorney with precedence private > public > null
func applyFrozenFields(rec *models.CaseRecord, result *judicial.RegistryResult) {
	if result.DatosProceso.Despacho != "" {
		rec.Court = result.DatosProceso.Despacho
	}
	if result.DatosProceso.TipoProceso != "" {
		rec.CaseType = result.DatosProceso.TipoProceso
	}

	var others []string
	var privateAttorney, publicAttorney string
	plaintiffSet, defendantSet := false, false

	for _, suj := range result.Sujetos {
		switch {
		case strings.HasPrefix(suj.Tipo, "DEMANDANTE") && !plaintiffSet:
			rec.Plaintiff = suj.Nombre
			plaintiffSet = true
		case strings.HasPrefix(suj.Tipo, "DEMANDADO") && !defendantSet:
			rec.Defendant = suj.Nombre
			defendantSet = true
		default:
			others = append(others, suj.Nombre)
		}

		if suj.Apoderado != "" {
			if suj.ApoderadoPrivado && privateAttorney == "" {
				privateAttorney = suj.Apoderado
			} else if !suj.ApoderadoPrivado && publicAttorney == "" {
				publicAttorney = suj.Apoderado
			}
		}
	}

	if len(others) > 0 {
		rec.OtherParties = others
	}

	switch {
	case privateAttorney != "":
		rec.Attorney = &privateAttorney
	case publicAttorney != "":
		rec.Attorney = &publicAttorney
	default:
		rec.Attorney = nil
	}
}

func registryActionToActuacion(act judicial.RegistryAction) models.Actuacion {
	out := models.Actuacion{
		IDRegActuacion: act.IDRegActuacion,
		Actuacion:      act.Actuacion,
		Anotacion:      act.Anotacion,
		ConDocumentos:  act.ConDocumentos,
	}
	if d, err := NormalizeDate(act.FechaActuacion); err == nil {
		out.FechaActuacion = d
	}
	if d, err := NormalizeDate(act.FechaRegistro); err == nil {
		out.FechaRegistro = d
	}
	return out
}

func latestFechaRegistro(actuaciones []models.Actuacion) string {
	latest := ""
	for _, a := range actuaciones {
		if a.FechaRegistro > latest {
			latest = a.FechaRegistro
		}
	}
	return latest
}

// mapScrapeError converts a judicial.ScrapeError into the engine's
// external-service taxonomy
func mapScrapeError(err error) error {
	var scrapeErr *judicial.ScrapeError
	if errors.As(err, &scrapeErr) {
		return &ExternalServiceError{
			Service:  "registry",
			Category: scrapeErr.Category,
			Err:      scrapeErr.Err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExternalServiceError{Service: "registry", Category: ExternalErrTimeout, Err: err}
	}
	return &ExternalServiceError{Service: "registry", Category: ExternalErrOther, Err: err}
}

// EmailNotifier sends bootstrap notifications when the user id is an
// email address (accounts sign in by email)
type EmailNotifier struct {
	Cfg  *config.Config
	Lang string
}

func (n *EmailNotifier) BootstrapCompleted(userID string, rec *models.CaseRecord, imported int) {
	if !strings.Contains(userID, "@") {
		return
	}
	lang := n.Lang
	if lang == "" {
		lang = "es"
	}
	email := BuildBootstrapEmail(userID, lang, strings.ToUpper(rec.CaseID), rec.RadicadoCPNU, imported)
	SendEmailAsync(n.Cfg, email)
}
