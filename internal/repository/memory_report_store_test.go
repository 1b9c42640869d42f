package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func seedReports(t *testing.T, s *MemoryReportStore, n int) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		r := &models.Report{
			ID:        fmt.Sprintf("RPT-%02d", i),
			Level:     models.LevelStandard,
			Format:    models.FormatMarkdown,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Save(context.Background(), r, []byte("rendered "+r.ID)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
}

func TestMemoryStoreGetRoundTrip(t *testing.T) {
	s := NewMemoryReportStore()
	seedReports(t, s, 1)

	r, rendered, err := s.Get(context.Background(), "RPT-00")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.ID != "RPT-00" || string(rendered) != "rendered RPT-00" {
		t.Fatalf("unexpected result: %s / %s", r.ID, rendered)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryReportStore()
	if _, _, err := s.Get(context.Background(), "RPT-99"); err != ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	s := NewMemoryReportStore()
	seedReports(t, s, 5)

	page, total, err := s.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(page) != 2 || page[0].ID != "RPT-04" || page[1].ID != "RPT-03" {
		t.Fatalf("unexpected page order: %v", page)
	}

	page, _, err = s.List(context.Background(), 2, 4)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(page) != 1 || page[0].ID != "RPT-00" {
		t.Fatalf("unexpected tail page: %v", page)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryReportStore()
	seedReports(t, s, 1)

	if err := s.Delete(context.Background(), "RPT-00"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(context.Background(), "RPT-00"); err != ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
