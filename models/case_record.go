package models

import "time"

// Dashboard Template status constants (filesystem dialect)
const (
	DashboardStatusActive  = "active"
	DashboardStatusPending = "pending"
	DashboardStatusUrgent  = "urgent"
)

// Master Case Document status constants (document-store dialect)
const (
	MCDStatusNew             = "new"
	MCDStatusReview          = "review"
	MCDStatusInProgress      = "in_progress"
	MCDStatusAppeals         = "appeals"
	MCDStatusPendingDecision = "pending_decision"
	MCDStatusClosed          = "closed"
)

// MaxRecentActivity bounds the recent_activity log after any write
const MaxRecentActivity = 10

// CaseRecord is the canonical case entity, persisted as one JSON document
// per case in the per-user filesystem store (Dashboard Template dialect)
type CaseRecord struct {
	CaseID string `json:"case_id"`

	// Parties
	Plaintiff    string   `json:"plaintiff"`
	Defendant    string   `json:"defendant"`
	OtherParties []string `json:"other_parties,omitempty"`

	Court    string  `json:"court"`
	CaseType string  `json:"case_type"`
	Attorney *string `json:"attorney,omitempty"`

	// Status uses the Dashboard taxonomy (active/pending/urgent)
	Status string `json:"status"`

	LastAction     *LastAction     `json:"last_action,omitempty"`
	Deadlines      []Deadline      `json:"deadlines"`
	ImportantDates []ImportantDate `json:"important_dates"`
	RecentActivity []ActivityEntry `json:"recent_activity"`

	// Soft delete tombstone
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`

	// CPNU bootstrap state. CPNUBootstrapDone is a one-way latch:
	// it transitions false->true exactly once per case, ever.
	RadicadoCPNU          string      `json:"radicado_cpnu,omitempty"`
	LinkedCPNU            bool        `json:"linked_cpnu"`
	CPNUBootstrapDone     bool        `json:"cpnu_bootstrap_done"`
	CPNUBootstrapAt       *time.Time  `json:"cpnu_bootstrap_at,omitempty"`
	CPNUBootstrapBy       *string     `json:"cpnu_bootstrap_by,omitempty"`
	CPNUActuaciones       []Actuacion `json:"cpnu_actuaciones,omitempty"`
	CPNULastFechaRegistro string      `json:"cpnu_last_fecha_registro,omitempty"`

	// Version is bumped on every merge so concurrent writers are
	// detectable after the fact. It does not prevent races.
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastAction is the most recent procedural action on the case
type LastAction struct {
	Title string `json:"title"`
	Date  string `json:"date"` // YYYY-MM-DD
}

// Deadline is a procedural deadline. CaseID back-references the owning
// case and must equal the parent's case_id after normalization.
type Deadline struct {
	Title     string `json:"title"`
	DueDate   string `json:"due_date"` // YYYY-MM-DD
	CaseID    string `json:"case_id"`
	Owner     string `json:"owner,omitempty"`
	Completed bool   `json:"completed"`
}

// ImportantDate is a calendar-relevant date without deadline semantics
type ImportantDate struct {
	Title string `json:"title"`
	Date  string `json:"date"` // YYYY-MM-DD
}

// ActivityEntry is one line of the bounded recent-activity log, newest first
type ActivityEntry struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Time    string `json:"time"` // RFC3339
}

// Actuacion is a registry action imported from the CPNU scrape
type Actuacion struct {
	IDRegActuacion string `json:"id_reg_actuacion"`
	Actuacion      string `json:"actuacion"`
	Anotacion      string `json:"anotacion,omitempty"`
	FechaActuacion string `json:"fecha_actuacion,omitempty"` // YYYY-MM-DD
	FechaRegistro  string `json:"fecha_registro,omitempty"`  // YYYY-MM-DD
	ConDocumentos  bool   `json:"con_documentos,omitempty"`
}

// IsValidDashboardStatus checks membership in the 3-value Dashboard set
func IsValidDashboardStatus(status string) bool {
	switch status {
	case DashboardStatusActive, DashboardStatusPending, DashboardStatusUrgent:
		return true
	}
	return false
}

// IsValidMCDStatus checks membership in the 6-value MCD set
func IsValidMCDStatus(status string) bool {
	switch status {
	case MCDStatusNew, MCDStatusReview, MCDStatusInProgress,
		MCDStatusAppeals, MCDStatusPendingDecision, MCDStatusClosed:
		return true
	}
	return false
}

// Clone returns a deep copy so merges never alias the loaded record
func (c *CaseRecord) Clone() *CaseRecord {
	out := *c
	out.OtherParties = append([]string(nil), c.OtherParties...)
	out.Deadlines = append([]Deadline(nil), c.Deadlines...)
	out.ImportantDates = append([]ImportantDate(nil), c.ImportantDates...)
	out.RecentActivity = append([]ActivityEntry(nil), c.RecentActivity...)
	out.CPNUActuaciones = append([]Actuacion(nil), c.CPNUActuaciones...)
	if c.Attorney != nil {
		a := *c.Attorney
		out.Attorney = &a
	}
	if c.LastAction != nil {
		la := *c.LastAction
		out.LastAction = &la
	}
	if c.DeletedAt != nil {
		t := *c.DeletedAt
		out.DeletedAt = &t
	}
	if c.DeletedBy != nil {
		s := *c.DeletedBy
		out.DeletedBy = &s
	}
	if c.CPNUBootstrapAt != nil {
		t := *c.CPNUBootstrapAt
		out.CPNUBootstrapAt = &t
	}
	if c.CPNUBootstrapBy != nil {
		s := *c.CPNUBootstrapBy
		out.CPNUBootstrapBy = &s
	}
	return &out
}
