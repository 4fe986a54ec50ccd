package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lexsync_app_go/models"
)

// FileStore persists one JSON Dashboard Template per case under a
// per-user directory. The store key is the uppercased case id.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// Path returns the on-disk location for a case file
func (s *FileStore) Path(userID, caseID string) string {
	return filepath.Join(s.baseDir, userID, strings.ToUpper(caseID)+".json")
}

// Read loads the raw record, tombstoned or not. A missing file returns
// (nil, nil); a corrupt file returns an error so the caller can decide
// to fall back to a fresh create.
func (s *FileStore) Read(userID, caseID string) (*models.CaseRecord, error) {
	data, err := os.ReadFile(s.Path(userID, caseID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	var rec models.CaseRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse case file %s: %w", s.Path(userID, caseID), err)
	}
	return &rec, nil
}

// Write persists the record atomically (temp file + rename) and returns
// the file location
func (s *FileStore) Write(userID string, rec *models.CaseRecord) (string, error) {
	dir := filepath.Join(s.baseDir, userID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode case record: %w", err)
	}

	target := s.Path(userID, rec.CaseID)
	tmp, err := os.CreateTemp(dir, ".case-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write case file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close case file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to finalize case file: %w", err)
	}

	return target, nil
}

// List returns the case ids of all non-deleted records for a user,
// sorted. Corrupt files are skipped rather than failing the listing.
func (s *FileStore) List(userID string) ([]string, error) {
	dir := filepath.Join(s.baseDir, userID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		caseID := strings.TrimSuffix(name, ".json")
		rec, err := s.Read(userID, caseID)
		if err != nil || rec == nil {
			continue
		}
		if rec.IsDeleted {
			continue
		}
		// Filename already carries the uppercased store key
		ids = append(ids, caseID)
	}

	sort.Strings(ids)
	return ids, nil
}
