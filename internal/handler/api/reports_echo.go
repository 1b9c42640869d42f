package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/repository"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"
)

// ReportsEchoHandler exposes the report lifecycle over HTTP.
type ReportsEchoHandler struct {
	logger  *xlogger.Logger
	reports *usecase.ReportUsecase
}

func NewReportsEchoHandler(logger *xlogger.Logger, reports *usecase.ReportUsecase) *ReportsEchoHandler {
	return &ReportsEchoHandler{logger: logger, reports: reports}
}

func (h *ReportsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/reports", h.Create)
	g.GET("/reports", h.List)
	g.GET("/reports/providers", h.Providers)
	g.GET("/reports/:id", h.Get)
	g.GET("/reports/:id/download", h.Download)
	g.DELETE("/reports/:id", h.Delete)
}

// Create builds a report synchronously, or enqueues it when the request
// asks for async generation.
func (h *ReportsEchoHandler) Create(c echo.Context) error {
	req := &models.CreateReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Async {
		jobID, err := h.reports.CreateAsync(c.Request().Context(), *req)
		if err != nil {
			h.logger.Error("enqueue report job", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.AcceptedResponse(c, map[string]string{"job_id": jobID})
	}

	rpt, err := h.reports.Create(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("create report", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, rpt)
}

func (h *ReportsEchoHandler) List(c echo.Context) error {
	q := &models.ListReportsQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, total, err := h.reports.List(c.Request().Context(), *q)
	if err != nil {
		h.logger.Error("list reports", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, total)
}

func (h *ReportsEchoHandler) Get(c echo.Context) error {
	rpt, err := h.reports.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return xhttp.NotFoundResponse(c, "report not found")
		}
		h.logger.Error("get report", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rpt)
}

// Download streams the rendered bytes with a filename attachment header.
// An optional ?format= query re-encodes into another encoding.
func (h *ReportsEchoHandler) Download(c echo.Context) error {
	if f := c.QueryParam("format"); f != "" {
		if _, err := models.ParseFormat(f); err != nil {
			return xhttp.BadRequestResponse(c, err.Error())
		}
	}
	dl, err := h.reports.Download(c.Request().Context(), c.Param("id"), c.QueryParam("format"))
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return xhttp.NotFoundResponse(c, "report not found")
		}
		h.logger.Error("download report", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+dl.Filename+`"`)
	return c.Blob(http.StatusOK, dl.ContentType, dl.Data)
}

func (h *ReportsEchoHandler) Delete(c echo.Context) error {
	if err := h.reports.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return xhttp.NotFoundResponse(c, "report not found")
		}
		h.logger.Error("delete report", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

// Providers lists enhancement providers and whether each is configured.
func (h *ReportsEchoHandler) Providers(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.reports.Providers())
}
