package api

import (
	"github.com/labstack/echo/v4"

	"MarketPulse/internal/notify"
	xlogger "MarketPulse/pkg/logger"
)

// StreamEchoHandler upgrades dashboard clients onto the event hub.
type StreamEchoHandler struct {
	logger *xlogger.Logger
	hub    *notify.Hub
}

func NewStreamEchoHandler(logger *xlogger.Logger, hub *notify.Hub) *StreamEchoHandler {
	return &StreamEchoHandler{logger: logger, hub: hub}
}

func (h *StreamEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/stream", h.Stream)
}

func (h *StreamEchoHandler) Stream(c echo.Context) error {
	if err := h.hub.Serve(c.Response(), c.Request()); err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return err
	}
	return nil
}
