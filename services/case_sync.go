package services

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"

	"lexsync_app_go/config"
	"lexsync_app_go/models"
	"lexsync_app_go/services/judicial"
)

// caseIDPattern: externally-assigned case ids are all-numeric for
// judicial compatibility
var caseIDPattern = regexp.MustCompile(`^[0-9]+$`)

// OperationStatus reports one side effect of a save. Side-effect
// failures never fail the overall operation; they only show up here.
type OperationStatus struct {
	Attempted bool   `json:"attempted"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
}

// OperationSummary is the structured per-effect result of a save
type OperationSummary struct {
	MCDSync      OperationStatus `json:"mcd_sync"`
	CalendarSync OperationStatus `json:"calendar_sync"`
	Export       OperationStatus `json:"export"`
}

// SaveResult summarizes a create-or-update
type SaveResult struct {
	IsUpdate     bool             `json:"is_update"`
	FileLocation string           `json:"file_location"`
	Operations   OperationSummary `json:"operations"`
}

// DeleteResult summarizes an idempotent soft delete
type DeleteResult struct {
	Deleted        bool `json:"deleted"`
	AlreadyDeleted bool `json:"already_deleted"`
}

// Notifier receives engine events for best-effort user notification
type Notifier interface {
	BootstrapCompleted(userID string, rec *models.CaseRecord, imported int)
}

// CaseSyncEngine keeps one logical case consistent across the
// filesystem store and the document store. The filesystem write is the
// primary; everything after it is best effort and non-blocking.
//
// Writes for the same (user, case) are serialized through a per-case
// mutex. The two stores still have no shared transaction boundary, but
// within one process a slower request can no longer silently overwrite
// a faster one's merge result.
type CaseSyncEngine struct {
	cfg      *config.Config
	files    *FileStore
	store    *MCDStore
	locator  *Locator
	calendar CalendarSyncer
	exporter *CaseExporter
	registry judicial.Provider
	notifier Notifier

	locks sync.Map // "userID|CASEID" -> *sync.Mutex
}

func NewCaseSyncEngine(cfg *config.Config, files *FileStore, store *MCDStore) *CaseSyncEngine {
	return &CaseSyncEngine{
		cfg:     cfg,
		files:   files,
		store:   store,
		locator: NewLocator(files, store),
	}
}

// WithCalendar attaches the calendar sync adapter
func (e *CaseSyncEngine) WithCalendar(c CalendarSyncer) *CaseSyncEngine {
	e.calendar = c
	return e
}

// WithExporter attaches the document export collaborator
func (e *CaseSyncEngine) WithExporter(x *CaseExporter) *CaseSyncEngine {
	e.exporter = x
	return e
}

// WithRegistry attaches the judicial registry scraper
func (e *CaseSyncEngine) WithRegistry(p judicial.Provider) *CaseSyncEngine {
	e.registry = p
	return e
}

// WithNotifier attaches the notification collaborator
func (e *CaseSyncEngine) WithNotifier(n Notifier) *CaseSyncEngine {
	e.notifier = n
	return e
}

func (e *CaseSyncEngine) lockFor(userID, caseID string) *sync.Mutex {
	key := userID + "|" + strings.ToUpper(caseID)
	mu, _ := e.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ValidateCaseRecord rejects malformed payloads before any write
func ValidateCaseRecord(rec *models.CaseRecord) error {
	if rec == nil {
		return &ValidationError{Message: "missing case payload"}
	}
	if strings.TrimSpace(rec.CaseID) == "" {
		return &ValidationError{Field: "case_id", Message: "case id is required"}
	}
	if !caseIDPattern.MatchString(strings.TrimSpace(rec.CaseID)) {
		return &ValidationError{Field: "case_id", Message: "case id must be all-numeric"}
	}
	if strings.TrimSpace(rec.Plaintiff) == "" {
		return &ValidationError{Field: "plaintiff", Message: "plaintiff is required"}
	}

	status := NormalizeStatus(rec.Status)
	if !models.IsValidDashboardStatus(status) && !models.IsValidMCDStatus(status) {
		return &ValidationError{Field: "status", Message: "unknown status value: " + rec.Status}
	}
	return nil
}

// normalizeIncoming cleans the payload in place: canonical status in
// the Dashboard taxonomy, canonical dates (bad dates dropped, not
// fatal), and deadline back-references forced to the parent case id.
func normalizeIncoming(rec *models.CaseRecord) {
	rec.CaseID = strings.TrimSpace(rec.CaseID)
	rec.Status = ToDashboardStatus(NormalizeStatus(rec.Status))
	scrubCaseDates(rec)

	for i := range rec.Deadlines {
		rec.Deadlines[i].CaseID = rec.CaseID
	}
}

// Save creates or updates a case. The filesystem write is the primary
// record write and the only one that can fail the request; the
// document-store mirror, calendar sync, and export run afterward and
// report through the operations summary.
func (e *CaseSyncEngine) Save(ctx context.Context, userID string, incoming *models.CaseRecord) (*SaveResult, error) {
	if err := ValidateCaseRecord(incoming); err != nil {
		return nil, err
	}
	normalizeIncoming(incoming)

	mu := e.lockFor(userID, incoming.CaseID)
	mu.Lock()
	defer mu.Unlock()

	located := e.locator.Locate(userID, incoming.CaseID)
	prior := located.Authoritative()
	merged := MergeCaseRecords(prior, incoming)
	if prior == nil {
		e.carryBootstrapFromTombstone(userID, incoming.CaseID, merged)
	}

	fileLocation, err := e.files.Write(userID, merged)
	if err != nil {
		return nil, err
	}

	result := &SaveResult{
		IsUpdate:     located.IsUpdate(),
		FileLocation: fileLocation,
	}

	result.Operations.MCDSync = e.mirrorToStore(userID, merged)
	result.Operations.CalendarSync = e.syncCalendar(userID, merged)
	result.Operations.Export = e.export(ctx, userID, merged)

	return result, nil
}

// carryBootstrapFromTombstone keeps the bootstrap latch alive when a
// save recreates a case over a soft-deleted copy. Deleting a case must
// not grant a second registry import for the same case id, so the
// frozen registry state from the tombstoned record survives the
// resurrect.
func (e *CaseSyncEngine) carryBootstrapFromTombstone(userID, caseID string, rec *models.CaseRecord) {
	prior, err := e.files.Read(userID, caseID)
	if err != nil || prior == nil || !prior.IsDeleted {
		doc, derr := e.store.Get(userID, caseID)
		if derr != nil || doc == nil || !doc.IsDeleted {
			return
		}
		prior = FromMasterCaseDocument(doc)
	}
	if !prior.CPNUBootstrapDone {
		return
	}

	rec.RadicadoCPNU = prior.RadicadoCPNU
	rec.LinkedCPNU = prior.LinkedCPNU
	rec.CPNUBootstrapDone = true
	rec.CPNUBootstrapAt = prior.CPNUBootstrapAt
	rec.CPNUBootstrapBy = prior.CPNUBootstrapBy
	rec.CPNUActuaciones = append([]models.Actuacion(nil), prior.CPNUActuaciones...)
	rec.CPNULastFechaRegistro = prior.CPNULastFechaRegistro
}

// mirrorToStore pushes the merged record into the document store.
// There is no retry and no compensating rollback of the filesystem
// write: the filesystem is authoritative, the store is a mirror.
func (e *CaseSyncEngine) mirrorToStore(userID string, rec *models.CaseRecord) OperationStatus {
	doc := ToMasterCaseDocument(rec, userID)
	if err := e.store.Upsert(doc); err != nil {
		pw := &PartialWriteError{Effect: "mcd_sync", Err: err}
		log.Printf("[SYNC] %v", pw)
		return OperationStatus{Attempted: true, Success: false, Message: err.Error()}
	}
	return OperationStatus{Attempted: true, Success: true}
}

func (e *CaseSyncEngine) syncCalendar(userID string, rec *models.CaseRecord) OperationStatus {
	if e.calendar == nil {
		return OperationStatus{}
	}
	res := e.calendar.Sync(userID, rec)
	if !res.Success {
		log.Printf("[SYNC] %v", &PartialWriteError{Effect: "calendar_sync", Err: nil})
	}
	return OperationStatus{Attempted: true, Success: res.Success, Message: res.Message}
}

// export renders both artifacts, the .xlsx case file and the printable
// PDF summary. A failed PDF does not undo a stored workbook; the status
// reports whatever got through.
func (e *CaseSyncEngine) export(ctx context.Context, userID string, rec *models.CaseRecord) OperationStatus {
	if e.exporter == nil {
		return OperationStatus{}
	}
	workbook, err := e.exporter.ExportWorkbook(ctx, userID, rec)
	if err != nil {
		pw := &PartialWriteError{Effect: "export", Err: err}
		log.Printf("[SYNC] %v", pw)
		return OperationStatus{Attempted: true, Success: false, Message: err.Error()}
	}
	pdf, err := e.exporter.ExportPDF(ctx, userID, rec)
	if err != nil {
		pw := &PartialWriteError{Effect: "export", Err: err}
		log.Printf("[SYNC] %v", pw)
		return OperationStatus{Attempted: true, Success: false, Message: workbook.Key + "; " + err.Error()}
	}
	return OperationStatus{Attempted: true, Success: true, Message: workbook.Key + ", " + pdf.Key}
}

// Get returns the case, filesystem copy first, skipping soft-deleted
// records in either store
func (e *CaseSyncEngine) Get(userID, caseID string) (*models.CaseRecord, error) {
	located := e.locator.Locate(userID, caseID)
	if rec := located.Authoritative(); rec != nil {
		return rec, nil
	}
	return nil, &NotFoundError{CaseID: strings.ToUpper(caseID)}
}

// ListAll returns the union of non-deleted case ids across both stores
func (e *CaseSyncEngine) ListAll(userID string) ([]string, error) {
	fsIDs, err := e.files.List(userID)
	if err != nil {
		return nil, err
	}

	storeIDs, err := e.store.List(userID)
	if err != nil {
		// Listing still works from the filesystem alone
		log.Printf("[SYNC] Document store listing failed for user %s: %v", userID, err)
		storeIDs = nil
	}

	seen := make(map[string]bool, len(fsIDs))
	ids := make([]string, 0, len(fsIDs)+len(storeIDs))
	for _, id := range fsIDs {
		key := strings.ToUpper(id)
		if !seen[key] {
			seen[key] = true
			ids = append(ids, key)
		}
	}
	for _, id := range storeIDs {
		key := strings.ToUpper(id)
		if !seen[key] {
			seen[key] = true
			ids = append(ids, key)
		}
	}

	sort.Strings(ids)
	return ids, nil
}
