package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"MarketPulse/internal/domain/models"
)

// ErrReportNotFound is returned when a report id does not exist.
var ErrReportNotFound = fmt.Errorf("report not found")

type storedReport struct {
	report   *models.Report
	rendered []byte
}

// MemoryReportStore keeps reports in process memory. Default backend
// when ClickHouse is disabled; contents do not survive a restart.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]storedReport
}

// NewMemoryReportStore creates an in-memory report store.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[string]storedReport)}
}

func (s *MemoryReportStore) Save(_ context.Context, report *models.Report, rendered []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = storedReport{report: report, rendered: rendered}
	return nil
}

func (s *MemoryReportStore) Get(_ context.Context, id string) (*models.Report, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.reports[id]
	if !ok {
		return nil, nil, ErrReportNotFound
	}
	return entry.report, entry.rendered, nil
}

func (s *MemoryReportStore) List(_ context.Context, limit, offset int) ([]*models.Report, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Report, 0, len(s.reports))
	for _, entry := range s.reports {
		all = append(all, entry.report)
	}
	// newest first, id as tie-break for stable paging
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *MemoryReportStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return ErrReportNotFound
	}
	delete(s.reports, id)
	return nil
}
