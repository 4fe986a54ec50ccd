package judicial

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// Error categories for registry failures. The sync engine maps these to
// localized user-facing messages and distinct status codes.
const (
	ErrCategoryTimeout    = "timeout"
	ErrCategoryConnection = "connection"
	ErrCategoryNotFound   = "not_found"
	ErrCategoryValidation = "validation"
	ErrCategoryOther      = "other"
)

// ScrapeError carries the failure category alongside the cause
type ScrapeError struct {
	Category string
	Err      error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry scrape failed (%s): %v", e.Category, e.Err)
	}
	return fmt.Sprintf("registry scrape failed (%s)", e.Category)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// Provider defines the interface for country-specific registry scrapers
type Provider interface {
	// Scrape resolves a radicado into the full registry snapshot:
	// process data, procedural subjects, and the action history.
	// Failures are always *ScrapeError.
	Scrape(ctx context.Context, radicado string) (*RegistryResult, error)
}

// RegistryResult is the unified scrape output
type RegistryResult struct {
	DatosProceso DatosProceso
	Sujetos      []SujetoProcesal
	Actuaciones  []RegistryAction
}

// DatosProceso holds the frozen process attributes from the registry
type DatosProceso struct {
	IDProceso    string
	Despacho     string // court office
	Departamento string
	TipoProceso  string
	Ponente      string // judge
	EsPrivado    bool
}

// SujetoProcesal is one procedural party. ApoderadoPrivado marks a
// privately retained attorney, which outranks a public one when the
// bootstrap picks the case attorney.
type SujetoProcesal struct {
	Tipo             string // DEMANDANTE, DEMANDADO, OTRO
	Nombre           string
	Apoderado        string
	ApoderadoPrivado bool
}

// RegistryAction is one actuacion from the registry history
type RegistryAction struct {
	IDRegActuacion string
	Actuacion      string
	Anotacion      string
	FechaActuacion time.Time
	FechaRegistro  time.Time
	ConDocumentos  bool
}

// radicadoPattern: the judicial filing number is exactly 23 digits
var radicadoPattern = regexp.MustCompile(`^\d{23}$`)

// ValidateRadicado rejects malformed filing numbers before any network call
func ValidateRadicado(radicado string) error {
	if !radicadoPattern.MatchString(radicado) {
		return &ScrapeError{
			Category: ErrCategoryValidation,
			Err:      fmt.Errorf("radicado must be exactly 23 digits, got %q", radicado),
		}
	}
	return nil
}

// BaseService provides common functionality like the HTTP client
type BaseService struct {
	client *http.Client
}

// NewBaseService creates a configured base service. The per-request
// deadline comes from the caller's context; the client timeout is only
// a backstop.
func NewBaseService(timeout time.Duration) BaseService {
	return BaseService{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProvider returns the correct implementation based on country code
func GetProvider(countryCode string, baseURL string, timeout time.Duration) (Provider, error) {
	switch countryCode {
	case "CO", "Colombia", "colombia":
		return NewColombiaService(baseURL, timeout), nil
	default:
		return nil, fmt.Errorf("judicial provider not implemented for country: %s", countryCode)
	}
}
