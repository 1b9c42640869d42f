package usecase

import (
	"context"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/logger"
)

// Snapshots resolves domain snapshots.
type Snapshots interface {
	Snapshot(ctx context.Context, domain models.Domain, source models.Source) (models.Snapshot, error)
	SnapshotAll(ctx context.Context, domains []models.Domain, source models.Source) (map[models.Domain]models.Snapshot, error)
	Refresh(ctx context.Context, domain models.Domain) (models.Snapshot, error)
}

// MarketUsecase exposes raw domain snapshots to the API surface.
type MarketUsecase struct {
	snaps Snapshots
	log   *logger.Logger
}

// NewMarketUsecase creates the market usecase.
func NewMarketUsecase(snaps Snapshots, log *logger.Logger) *MarketUsecase {
	return &MarketUsecase{snaps: snaps, log: log}
}

// Snapshot resolves one domain from the given source.
func (u *MarketUsecase) Snapshot(ctx context.Context, domain, source string) (models.Snapshot, error) {
	d, err := models.ParseDomain(domain)
	if err != nil {
		return models.Snapshot{}, err
	}
	s, err := models.ParseSource(source)
	if err != nil {
		return models.Snapshot{}, err
	}
	return u.snaps.Snapshot(ctx, d, s)
}

// Overview resolves every domain concurrently.
func (u *MarketUsecase) Overview(ctx context.Context, source string) (map[models.Domain]models.Snapshot, error) {
	s, err := models.ParseSource(source)
	if err != nil {
		return nil, err
	}
	return u.snaps.SnapshotAll(ctx, models.AllDomains, s)
}

// Refresh invalidates a domain's cache entry and refetches it live.
func (u *MarketUsecase) Refresh(ctx context.Context, domain string) (models.Snapshot, error) {
	d, err := models.ParseDomain(domain)
	if err != nil {
		return models.Snapshot{}, err
	}
	return u.snaps.Refresh(ctx, d)
}
