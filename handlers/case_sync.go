package handlers

import (
	"errors"
	"log"
	"net/http"

	"lexsync_app_go/models"
	"lexsync_app_go/services"
	"lexsync_app_go/services/i18n"

	"github.com/labstack/echo/v4"
)

// CaseSyncHandler exposes the sync engine over JSON.
type CaseSyncHandler struct {
	engine *services.CaseSyncEngine
}

func NewCaseSyncHandler(engine *services.CaseSyncEngine) *CaseSyncHandler {
	return &CaseSyncHandler{engine: engine}
}

// RegisterRoutes mounts the case endpoints under the given group.
func (h *CaseSyncHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/users/:userId/cases", h.SaveCase)
	g.GET("/users/:userId/cases", h.ListCases)
	g.GET("/users/:userId/cases/:caseId", h.GetCase)
	g.DELETE("/users/:userId/cases/:caseId", h.DeleteCase)
	g.POST("/users/:userId/cases/:caseId/bootstrap", h.BootstrapCase)
}

// SaveCase creates or updates a case in both stores
func (h *CaseSyncHandler) SaveCase(c echo.Context) error {
	userID := c.Param("userId")

	record := new(models.CaseRecord)
	if err := c.Bind(record); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": i18n.T(c.Request().Context(), "sync.errors.invalid_payload", map[string]interface{}{
				"detail": "malformed JSON body",
			}),
		})
	}

	result, err := h.engine.Save(c.Request().Context(), userID, record)
	if err != nil {
		return h.writeError(c, err)
	}

	status := http.StatusCreated
	if result.IsUpdate {
		status = http.StatusOK
	}
	return c.JSON(status, result)
}

// GetCase returns the authoritative copy of a case
func (h *CaseSyncHandler) GetCase(c echo.Context) error {
	userID := c.Param("userId")
	caseID := c.Param("caseId")

	record, err := h.engine.Get(userID, caseID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// ListCases returns the union of case ids across both stores
func (h *CaseSyncHandler) ListCases(c echo.Context) error {
	userID := c.Param("userId")

	ids, err := h.engine.ListAll(userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"case_ids": ids,
		"count":    len(ids),
	})
}

// DeleteCase tombstones a case in both stores. Repeating the call is a
// no-op and still returns 200.
func (h *CaseSyncHandler) DeleteCase(c echo.Context) error {
	userID := c.Param("userId")
	caseID := c.Param("caseId")

	deletedBy := c.QueryParam("deleted_by")
	if deletedBy == "" {
		deletedBy = userID
	}

	result, err := h.engine.Delete(userID, caseID, deletedBy)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type bootstrapRequest struct {
	Radicado    string `json:"radicado"`
	RequestedBy string `json:"requested_by"`
}

// BootstrapCase runs the one-time registry import for a case
func (h *CaseSyncHandler) BootstrapCase(c echo.Context) error {
	userID := c.Param("userId")
	caseID := c.Param("caseId")

	req := new(bootstrapRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": i18n.T(c.Request().Context(), "sync.errors.invalid_payload", map[string]interface{}{
				"detail": "malformed JSON body",
			}),
		})
	}
	if req.RequestedBy == "" {
		req.RequestedBy = userID
	}

	record, err := h.engine.BootstrapSync(c.Request().Context(), userID, caseID, req.Radicado, req.RequestedBy)
	if err != nil {
		return h.writeError(c, err, map[string]interface{}{"radicado": req.Radicado})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"case":                record,
		"imported_actions":    len(record.CPNUActuaciones),
		"last_fecha_registro": record.CPNULastFechaRegistro,
	})
}

// writeError maps engine errors onto HTTP statuses with localized
// messages. Unknown errors are logged and become a plain 500.
func (h *CaseSyncHandler) writeError(c echo.Context, err error, args ...map[string]interface{}) error {
	ctx := c.Request().Context()

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": i18n.T(ctx, "sync.errors.invalid_payload", map[string]interface{}{
				"detail": validationErr.Message,
			}),
			"field": validationErr.Field,
		})
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": i18n.T(ctx, "sync.errors.case_not_found", map[string]interface{}{
				"caseId": notFoundErr.CaseID,
			}),
		})
	}

	var bootstrappedErr *services.AlreadyBootstrappedError
	if errors.As(err, &bootstrappedErr) {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": i18n.T(ctx, "sync.errors.already_bootstrapped"),
		})
	}

	var externalErr *services.ExternalServiceError
	if errors.As(err, &externalErr) {
		status := http.StatusInternalServerError
		switch externalErr.Category {
		case services.ExternalErrTimeout:
			status = http.StatusGatewayTimeout
		case services.ExternalErrConnection:
			status = http.StatusBadGateway
		case services.ExternalErrNotFound:
			status = http.StatusNotFound
		case services.ExternalErrValidation:
			status = http.StatusBadRequest
		}
		return c.JSON(status, map[string]string{
			"error": i18n.T(ctx, externalErr.LocaleKey(), args...),
		})
	}

	log.Printf("[WARNING] Unhandled error in case handler: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}
