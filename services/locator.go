package services

import (
	"log"

	"lexsync_app_go/models"
)

// LocateResult reports where a case currently lives. A record only
// counts as existing if its tombstone flag is not set.
type LocateResult struct {
	ExistsInFS    bool
	ExistsInStore bool
	FSRecord      *models.CaseRecord
	StoreRecord   *models.MasterCaseDocument
}

// IsUpdate reports whether a save for this case is an update rather
// than a create
func (r *LocateResult) IsUpdate() bool {
	return r.ExistsInFS || r.ExistsInStore
}

// Authoritative returns the record merges should start from. The
// filesystem copy takes priority; the store copy is only consulted
// when the filesystem has nothing.
func (r *LocateResult) Authoritative() *models.CaseRecord {
	if r.ExistsInFS {
		return r.FSRecord
	}
	if r.ExistsInStore {
		return FromMasterCaseDocument(r.StoreRecord)
	}
	return nil
}

// Locator resolves (user, case) against both stores
type Locator struct {
	files *FileStore
	store *MCDStore
}

func NewLocator(files *FileStore, store *MCDStore) *Locator {
	return &Locator{files: files, store: store}
}

// Locate checks both stores, honoring soft-delete tombstones. A corrupt
// filesystem record is logged and treated as absent so the caller falls
// back to a fresh create instead of failing the request.
func (l *Locator) Locate(userID, caseID string) *LocateResult {
	result := &LocateResult{}

	fsRec, err := l.files.Read(userID, caseID)
	if err != nil {
		log.Printf("[SYNC] Unreadable filesystem record for case %s, treating as absent: %v", caseID, err)
	} else if fsRec != nil && !fsRec.IsDeleted {
		result.ExistsInFS = true
		result.FSRecord = fsRec
	}

	doc, err := l.store.Get(userID, caseID)
	if err != nil {
		// The document store being down must not block the filesystem
		// path; it is the best-effort mirror.
		log.Printf("[SYNC] Document store lookup failed for case %s: %v", caseID, err)
	} else if doc != nil && !doc.IsDeleted {
		result.ExistsInStore = true
		result.StoreRecord = doc
	}

	return result
}
