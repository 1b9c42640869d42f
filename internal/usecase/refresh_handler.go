package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/logger"
)

// EventSnapshotRefreshed is emitted after a commanded cache refresh.
const EventSnapshotRefreshed = "snapshot.refreshed"

// RefreshCommand is the wire form of a cache-warm command.
type RefreshCommand struct {
	Domain string `json:"domain"`
}

// RefreshHandler consumes cache-warm commands from the refresh topic
// and refetches the named domain.
type RefreshHandler struct {
	topic    string
	market   *MarketUsecase
	notifier domrepo.Notifier
	log      *logger.Logger
}

// NewRefreshHandler creates the refresh command consumer handler.
func NewRefreshHandler(topic string, market *MarketUsecase, notifier domrepo.Notifier, log *logger.Logger) *RefreshHandler {
	return &RefreshHandler{topic: topic, market: market, notifier: notifier, log: log}
}

func (h *RefreshHandler) Topic() string { return h.topic }

func (h *RefreshHandler) Handle(ctx context.Context, data []byte) error {
	var cmd RefreshCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("decode refresh command: %w", err)
	}

	snapshot, err := h.market.Refresh(ctx, cmd.Domain)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", cmd.Domain, err)
	}

	h.log.Info("snapshot refreshed by command",
		logger.String("domain", cmd.Domain),
		logger.String("origin", string(snapshot.Origin)))
	h.notifier.Notify(EventSnapshotRefreshed, map[string]string{
		"domain": cmd.Domain,
		"origin": string(snapshot.Origin),
	})
	return nil
}
