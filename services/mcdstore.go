package services

import (
	"errors"
	"fmt"
	"strings"

	"lexsync_app_go/models"

	"gorm.io/gorm"
)

// MCDStore persists Master Case Documents in the document store, one
// record per case keyed by (case_id, user_id)
type MCDStore struct {
	db *gorm.DB
}

func NewMCDStore(db *gorm.DB) *MCDStore {
	return &MCDStore{db: db}
}

// Get loads the raw document, tombstoned or not. A missing record
// returns (nil, nil).
func (s *MCDStore) Get(userID, caseID string) (*models.MasterCaseDocument, error) {
	var doc models.MasterCaseDocument
	err := s.db.Where("case_id = ? AND user_id = ?", strings.ToUpper(caseID), userID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query master case document: %w", err)
	}
	return &doc, nil
}

// Upsert creates or replaces the document for (case_id, user_id). It
// looks up first, then Creates or copies onto the existing row so the
// primary key and CreatedAt survive.
func (s *MCDStore) Upsert(doc *models.MasterCaseDocument) error {
	existing, err := s.Get(doc.UserID, doc.CaseID)
	if err != nil {
		return err
	}

	if existing == nil {
		if err := s.db.Create(doc).Error; err != nil {
			return fmt.Errorf("failed to create master case document: %w", err)
		}
		return nil
	}

	doc.ID = existing.ID
	doc.CreatedAt = existing.CreatedAt
	if err := s.db.Save(doc).Error; err != nil {
		return fmt.Errorf("failed to update master case document: %w", err)
	}
	return nil
}

// List returns non-deleted case ids for a user, sorted by case_id
func (s *MCDStore) List(userID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.MasterCaseDocument{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("case_id").
		Pluck("case_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list master case documents: %w", err)
	}
	return ids, nil
}

// ListBootstrapped returns every non-deleted document whose bootstrap
// latch is set, across all users. Used by the nightly registry refresh.
func (s *MCDStore) ListBootstrapped() ([]models.MasterCaseDocument, error) {
	var docs []models.MasterCaseDocument
	err := s.db.
		Where("cpnu_bootstrap_done = ? AND is_deleted = ? AND radicado_cpnu != ''", true, false).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bootstrapped documents: %w", err)
	}
	return docs, nil
}
