package api

import (
	"github.com/labstack/echo/v4"

	xhttp "MarketPulse/pkg/http"
)

// Router composes every API handler into one route registrar.
type Router struct {
	handlers []xhttp.Handler
}

func NewRouter(
	reports *ReportsEchoHandler,
	market *MarketEchoHandler,
	stream *StreamEchoHandler,
	health *HealthEchoHandler,
) *Router {
	return &Router{handlers: []xhttp.Handler{reports, market, stream, health}}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	for _, h := range r.handlers {
		h.RegisterRoutes(e)
	}
}
