package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/a11y-toolkit/internal/types"
)

// MemoryStore is a process-local ReportStore used when no database is
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]types.Report
	now     func() time.Time
}

var _ ReportStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[uuid.UUID]types.Report),
		now:     time.Now,
	}
}

func (m *MemoryStore) SaveReport(_ context.Context, kind types.ReportKind, payload any) (uuid.UUID, error) {
	jsonBytes, err := marshalPayload(kind, payload)
	if err != nil {
		return uuid.Nil, err
	}
	report := types.Report{
		ID:        uuid.New(),
		Kind:      kind,
		Payload:   append([]byte(nil), jsonBytes...),
		CreatedAt: m.now().UTC(),
	}

	m.mu.Lock()
	m.reports[report.ID] = report
	m.mu.Unlock()
	return report.ID, nil
}

func (m *MemoryStore) GetReport(_ context.Context, id uuid.UUID) (*types.Report, error) {
	m.mu.RLock()
	report, ok := m.reports[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &report, nil
}

func (m *MemoryStore) ListReports(_ context.Context, kind types.ReportKind, limit int) ([]types.Report, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.RLock()
	reports := make([]types.Report, 0, len(m.reports))
	for _, r := range m.reports {
		if kind == "" || r.Kind == kind {
			reports = append(reports, r)
		}
	}
	m.mu.RUnlock()

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].ID.String() < reports[j].ID.String()
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (m *MemoryStore) Close() {}
