package server

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strconv"

	"quant_architect/internal/dashboard"
	"quant_architect/internal/models"

	"github.com/labstack/echo/v4"
)

//go:embed static/index.html
var indexHTML []byte

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Input string `json:"input" validate:"required,max=64"`
}

// ModeRequest is the body of PUT /api/mode.
type ModeRequest struct {
	Mode string `json:"mode" validate:"required"`
}

// Handler exposes the dashboard over HTTP.
type Handler struct {
	dash *dashboard.Dashboard
}

func NewHandler(dash *dashboard.Dashboard) *Handler {
	return &Handler{dash: dash}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.index)
	e.GET("/healthz", h.health)

	api := e.Group("/api")
	api.GET("/state", h.state)
	api.POST("/analyze", h.analyze)
	api.POST("/scanner/:ticker", h.selectSetup)
	api.PUT("/mode", h.setMode)
	api.GET("/logs", h.logs)
}

func (h *Handler) index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, indexHTML)
}

func (h *Handler) health(c echo.Context) error {
	return SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *Handler) state(c echo.Context) error {
	return SuccessResponse(c, h.dash.Snapshot())
}

func (h *Handler) analyze(c echo.Context) error {
	var req AnalyzeRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}

	snap, err := h.dash.Analyze(cycleContext(c), req.Input)
	if err != nil {
		return AppErrorResponse(c, mapError(err))
	}
	return SuccessResponse(c, snap)
}

func (h *Handler) selectSetup(c echo.Context) error {
	snap, err := h.dash.SelectSetup(cycleContext(c), c.Param("ticker"))
	if err != nil {
		return AppErrorResponse(c, mapError(err))
	}
	return SuccessResponse(c, snap)
}

func (h *Handler) setMode(c echo.Context) error {
	var req ModeRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}

	mode, err := models.ParseTradingMode(req.Mode)
	if err != nil {
		return AppErrorResponse(c, mapError(err))
	}
	h.dash.SetMode(mode)
	return SuccessResponse(c, h.dash.Snapshot())
}

func (h *Handler) logs(c echo.Context) error {
	since := 0
	if raw := c.QueryParam("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return AppErrorResponse(c, BadRequestError("since must be a non-negative integer"))
		}
		since = n
	}
	return SuccessResponse(c, h.dash.Logs(since))
}

// cycleContext keeps a started cycle running when the client goes away, so
// the shared state still receives its result.
func cycleContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

func mapError(err error) *AppError {
	switch {
	case errors.Is(err, dashboard.ErrEmptyInput), errors.Is(err, models.ErrInvalidMode):
		return BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, dashboard.ErrUnknownSetup):
		return NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, dashboard.ErrSuperseded):
		return ConflictError(err.Error()).WithError(err)
	default:
		return InternalError("analysis cycle failed").WithError(err)
	}
}
