package services

import (
	"log"
	"strings"
	"time"
)

// Delete performs an idempotent logical deletion across whichever
// store(s) currently hold a non-deleted record. Deleting an
// already-deleted case reports success without touching deleted_at or
// deleted_by again; the record is never physically removed.
func (e *CaseSyncEngine) Delete(userID, caseID, deletedBy string) (*DeleteResult, error) {
	mu := e.lockFor(userID, caseID)
	mu.Lock()
	defer mu.Unlock()

	fsRec, err := e.files.Read(userID, caseID)
	if err != nil {
		log.Printf("[SYNC] Unreadable filesystem record for case %s during delete: %v", caseID, err)
		fsRec = nil
	}

	doc, err := e.store.Get(userID, caseID)
	if err != nil {
		log.Printf("[SYNC] Document store lookup failed for case %s during delete: %v", caseID, err)
		doc = nil
	}

	if fsRec == nil && doc == nil {
		return nil, &NotFoundError{CaseID: strings.ToUpper(caseID)}
	}

	fsDeleted := fsRec == nil || fsRec.IsDeleted
	docDeleted := doc == nil || doc.IsDeleted
	if fsDeleted && docDeleted {
		return &DeleteResult{Deleted: true, AlreadyDeleted: true}, nil
	}

	now := time.Now()
	by := deletedBy

	if fsRec != nil && !fsRec.IsDeleted {
		fsRec.IsDeleted = true
		fsRec.DeletedAt = &now
		if by != "" {
			fsRec.DeletedBy = &by
		}
		fsRec.UpdatedAt = now
		if _, err := e.files.Write(userID, fsRec); err != nil {
			return nil, err
		}
	}

	if doc != nil && !doc.IsDeleted {
		doc.IsDeleted = true
		doc.DeletedAt = &now
		if by != "" {
			doc.DeletedBy = &by
		}
		if err := e.store.Upsert(doc); err != nil {
			// Mirror failures follow the same policy as saves: the
			// filesystem tombstone already stands.
			log.Printf("[SYNC] %v", &PartialWriteError{Effect: "mcd_delete", Err: err})
		}
	}

	return &DeleteResult{Deleted: true}, nil
}
