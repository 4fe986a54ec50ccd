package judicial

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ColombiaService implements Provider against the Rama Judicial
// "Consulta de Procesos" API (CPNU)
type ColombiaService struct {
	BaseService
	baseURL string
}

// NewColombiaService creates a new instance. baseURL is overridable for
// tests; an empty string keeps the production endpoint.
func NewColombiaService(baseURL string, timeout time.Duration) *ColombiaService {
	if baseURL == "" {
		baseURL = "https://consultaprocesos.ramajudicial.gov.co:448/api/v2"
	}
	return &ColombiaService{
		BaseService: NewBaseService(timeout),
		baseURL:     baseURL,
	}
}

// ColombianTime handles dates without timezone
type ColombianTime struct {
	time.Time
}

func (ct *ColombianTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	s = s[1 : len(s)-1] // Remove quotes

	// API format: 2006-01-02T15:04:05
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err == nil {
		ct.Time = t
		return nil
	}

	// Try standard RFC3339 just in case
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		ct.Time = t
		return nil
	}

	return err
}

// === Colombia Internal Structs ===

type coSearchResponse struct {
	Procesos []coProcessSummary `json:"procesos"`
}

type coProcessSummary struct {
	IDProceso         int64  `json:"idProceso"`
	EsPrivado         bool   `json:"esPrivado"`
	Despacho          string `json:"despacho"`
	Departamento      string `json:"departamento"`
	SujetosProcesales string `json:"sujetosProcesales"`
}

type coProcessDetail struct {
	TipoProceso string     `json:"tipoProceso"`
	Ponente     string     `json:"ponente"`
	Sujetos     []coSujeto `json:"sujetos"`
}

type coSujeto struct {
	TipoSujeto      string `json:"tipoSujeto"`
	NombreSujeto    string `json:"nombreSujeto"`
	Apoderado       string `json:"apoderado"`
	EsApoderadoPriv bool   `json:"esApoderadoPrivado"`
}

type coProcessAction struct {
	IDRegActuacion int64          `json:"idRegActuacion"`
	Actuacion      string         `json:"actuacion"`
	Anotacion      string         `json:"anotacion"`
	FechaActuacion *ColombianTime `json:"fechaActuacion"`
	FechaRegistro  *ColombianTime `json:"fechaRegistro"`
	ConDocumentos  bool           `json:"conDocumentos"`
}

// Scrape implements Provider. It chains the three registry calls
// (search, detail, actuaciones) under the caller's context deadline and
// categorizes every failure.
func (s *ColombiaService) Scrape(ctx context.Context, radicado string) (*RegistryResult, error) {
	if err := ValidateRadicado(radicado); err != nil {
		return nil, err
	}

	summary, err := s.searchByRadicado(ctx, radicado)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, &ScrapeError{
			Category: ErrCategoryNotFound,
			Err:      fmt.Errorf("radicado %s not found in registry", radicado),
		}
	}

	processID := fmt.Sprintf("%d", summary.IDProceso)

	detail, err := s.getDetail(ctx, processID)
	if err != nil {
		return nil, err
	}

	actions, err := s.getActions(ctx, processID)
	if err != nil {
		return nil, err
	}

	result := &RegistryResult{
		DatosProceso: DatosProceso{
			IDProceso:    processID,
			Despacho:     summary.Despacho,
			Departamento: summary.Departamento,
			TipoProceso:  detail.TipoProceso,
			Ponente:      detail.Ponente,
			EsPrivado:    summary.EsPrivado,
		},
		Actuaciones: actions,
	}

	for _, suj := range detail.Sujetos {
		result.Sujetos = append(result.Sujetos, SujetoProcesal{
			Tipo:             strings.ToUpper(strings.TrimSpace(suj.TipoSujeto)),
			Nombre:           strings.TrimSpace(suj.NombreSujeto),
			Apoderado:        strings.TrimSpace(suj.Apoderado),
			ApoderadoPrivado: suj.EsApoderadoPriv,
		})
	}
	// Older records only expose the combined subjects string from the
	// search response. Fall back to parsing it.
	if len(result.Sujetos) == 0 && summary.SujetosProcesales != "" {
		result.Sujetos = parseSujetosString(summary.SujetosProcesales)
	}

	return result, nil
}

func (s *ColombiaService) searchByRadicado(ctx context.Context, radicado string) (*coProcessSummary, error) {
	params := url.Values{}
	params.Add("numero", radicado)
	params.Add("SoloActivos", "false")
	params.Add("pagina", "1")

	reqURL := fmt.Sprintf("%s/Procesos/Consulta/NumeroRadicacion?%s", s.baseURL, params.Encode())

	var searchResp coSearchResponse
	if err := s.getJSON(ctx, reqURL, &searchResp); err != nil {
		return nil, err
	}

	if len(searchResp.Procesos) == 0 {
		return nil, nil // No process found
	}
	return &searchResp.Procesos[0], nil
}

func (s *ColombiaService) getDetail(ctx context.Context, processID string) (*coProcessDetail, error) {
	reqURL := fmt.Sprintf("%s/Proceso/Detalle/%s", s.baseURL, processID)

	var detailResp coProcessDetail
	if err := s.getJSON(ctx, reqURL, &detailResp); err != nil {
		return nil, err
	}
	return &detailResp, nil
}

func (s *ColombiaService) getActions(ctx context.Context, processID string) ([]RegistryAction, error) {
	// Only fetch page 1; it carries the most recent actuaciones
	reqURL := fmt.Sprintf("%s/Proceso/Actuaciones/%s?pagina=1", s.baseURL, processID)

	var actionsResp struct {
		Actuaciones []coProcessAction `json:"actuaciones"`
	}
	if err := s.getJSON(ctx, reqURL, &actionsResp); err != nil {
		return nil, err
	}

	var actions []RegistryAction
	for _, act := range actionsResp.Actuaciones {
		a := RegistryAction{
			IDRegActuacion: fmt.Sprintf("%d", act.IDRegActuacion),
			Actuacion:      act.Actuacion,
			Anotacion:      act.Anotacion,
			ConDocumentos:  act.ConDocumentos,
		}
		if act.FechaActuacion != nil {
			a.FechaActuacion = act.FechaActuacion.Time
		}
		if act.FechaRegistro != nil {
			a.FechaRegistro = act.FechaRegistro.Time
		}
		actions = append(actions, a)
	}

	return actions, nil
}

func (s *ColombiaService) getJSON(ctx context.Context, reqURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &ScrapeError{Category: ErrCategoryOther, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &ScrapeError{Category: categorizeTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &ScrapeError{Category: ErrCategoryNotFound, Err: fmt.Errorf("API returned status: %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return &ScrapeError{Category: ErrCategoryOther, Err: fmt.Errorf("API returned status: %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &ScrapeError{Category: ErrCategoryOther, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func categorizeTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrCategoryTimeout
	}
	return ErrCategoryConnection
}

// parseSujetosString splits the combined subjects string, e.g.
// "Demandante: Acme S.A. | Demandado: Juan Pérez"
func parseSujetosString(s string) []SujetoProcesal {
	var sujetos []SujetoProcesal
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tipo := ""
		nombre := part
		if idx := strings.Index(part, ":"); idx > 0 {
			tipo = strings.ToUpper(strings.TrimSpace(part[:idx]))
			nombre = strings.TrimSpace(part[idx+1:])
		}
		if nombre == "" {
			continue
		}
		sujetos = append(sujetos, SujetoProcesal{Tipo: tipo, Nombre: nombre})
	}
	return sujetos
}
