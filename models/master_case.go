package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasterCaseDocument is the document-store dialect of a case. One record
// per case keyed by (case_id, user_id) with a uniqueness constraint on
// that pair. It mirrors the filesystem record; the filesystem copy takes
// lookup priority when both exist.
type MasterCaseDocument struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"not null;uniqueIndex:idx_mcd_case_user" json:"case_id"`
	UserID string `gorm:"not null;uniqueIndex:idx_mcd_case_user;index" json:"user_id"`

	// Client combines both parties as "Plaintiff vs. Defendant".
	// Without the separator the whole string is the plaintiff.
	Client       string  `json:"client"`
	OtherParties Strings `gorm:"type:text" json:"other_parties,omitempty"`

	Court    string  `json:"court"`
	CaseType string  `json:"case_type"`
	Attorney *string `json:"attorney,omitempty"`

	// Status uses the MCD taxonomy (new/review/in_progress/appeals/
	// pending_decision/closed)
	Status string `gorm:"not null;default:new" json:"status"`

	LastActionTitle string `json:"last_action_title,omitempty"`
	LastActionDate  string `json:"last_action_date,omitempty"` // YYYY-MM-DD

	Deadlines      DeadlineList      `gorm:"type:text" json:"deadlines"`
	ImportantDates ImportantDateList `gorm:"type:text" json:"important_dates"`
	RecentActivity ActivityList      `gorm:"type:text" json:"recent_activity"`

	// Soft delete tombstone (never physically removed by normal flows)
	IsDeleted bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`

	// CPNU bootstrap state
	RadicadoCPNU          string        `gorm:"index" json:"radicado_cpnu,omitempty"`
	LinkedCPNU            bool          `gorm:"not null;default:false" json:"linked_cpnu"`
	CPNUBootstrapDone     bool          `gorm:"not null;default:false;index" json:"cpnu_bootstrap_done"`
	CPNUBootstrapAt       *time.Time    `json:"cpnu_bootstrap_at,omitempty"`
	CPNUBootstrapBy       *string       `json:"cpnu_bootstrap_by,omitempty"`
	CPNUActuaciones       ActuacionList `gorm:"type:text" json:"cpnu_actuaciones,omitempty"`
	CPNULastFechaRegistro string        `json:"cpnu_last_fecha_registro,omitempty"`

	// Country-specific registry details (office, judge, department, etc.)
	CPNUDetails JSONMap `gorm:"type:text" json:"cpnu_details,omitempty"`

	Version int `gorm:"not null;default:0" json:"version"`
}

// BeforeCreate hook to generate UUID
func (m *MasterCaseDocument) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for MasterCaseDocument
func (MasterCaseDocument) TableName() string {
	return "master_case_documents"
}

// JSONMap is a helper for storing JSON data in text columns
type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, &j)
}

// The list types below persist the append-only collections as JSON text
// columns, following the same Value/Scan convention as JSONMap.

func listValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func listScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, dest)
}

type DeadlineList []Deadline

func (l DeadlineList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return listValue(l)
}

func (l *DeadlineList) Scan(value interface{}) error { return listScan(value, l) }

type ImportantDateList []ImportantDate

func (l ImportantDateList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return listValue(l)
}

func (l *ImportantDateList) Scan(value interface{}) error { return listScan(value, l) }

type ActivityList []ActivityEntry

func (l ActivityList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return listValue(l)
}

func (l *ActivityList) Scan(value interface{}) error { return listScan(value, l) }

type ActuacionList []Actuacion

func (l ActuacionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return listValue(l)
}

func (l *ActuacionList) Scan(value interface{}) error { return listScan(value, l) }

type Strings []string

func (l Strings) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return listValue(l)
}

func (l *Strings) Scan(value interface{}) error { return listScan(value, l) }
