package api

import (
	"github.com/labstack/echo/v4"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"
)

// MarketEchoHandler exposes raw domain snapshots.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	market *usecase.MarketUsecase
}

func NewMarketEchoHandler(logger *xlogger.Logger, market *usecase.MarketUsecase) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, market: market}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/market")
	g.GET("", h.Overview)
	g.GET("/snapshot", h.Overview)
	g.GET("/:domain", h.Snapshot)
	g.POST("/:domain/refresh", h.Refresh)
}

// Overview resolves every domain concurrently from one source.
func (h *MarketEchoHandler) Overview(c echo.Context) error {
	if _, err := models.ParseSource(c.QueryParam("source")); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	snaps, err := h.market.Overview(c.Request().Context(), c.QueryParam("source"))
	if err != nil {
		h.logger.Error("overview error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snaps)
}

// Snapshot resolves one domain. A validation failure on the path or
// query is a 400; a fetch failure is a 500.
func (h *MarketEchoHandler) Snapshot(c echo.Context) error {
	if _, err := models.ParseDomain(c.Param("domain")); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	if _, err := models.ParseSource(c.QueryParam("source")); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	snap, err := h.market.Snapshot(c.Request().Context(), c.Param("domain"), c.QueryParam("source"))
	if err != nil {
		h.logger.Warn("snapshot error",
			xlogger.String("domain", c.Param("domain")),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snap)
}

// Refresh drops the cached snapshot for a domain and refetches it live.
func (h *MarketEchoHandler) Refresh(c echo.Context) error {
	if _, err := models.ParseDomain(c.Param("domain")); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	snap, err := h.market.Refresh(c.Request().Context(), c.Param("domain"))
	if err != nil {
		h.logger.Warn("refresh error",
			xlogger.String("domain", c.Param("domain")),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snap)
}
