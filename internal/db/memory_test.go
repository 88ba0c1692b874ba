package db

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/a11y-toolkit/internal/types"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.SaveReport(ctx, types.ReportContrast, map[string]any{"ratio": 21.0})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	report, err := store.GetReport(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, id, report.ID)
	assert.Equal(t, types.ReportContrast, report.Kind)
	assert.JSONEq(t, `{"ratio": 21}`, string(report.Payload))
	assert.False(t, report.CreatedAt.IsZero())
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	report, err := NewMemoryStore().GetReport(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, report)
}

func TestMemoryStore_RejectsBadInput(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.SaveReport(ctx, "invoice", map[string]any{})
	assert.ErrorContains(t, err, "unknown report kind")

	_, err = store.SaveReport(ctx, types.ReportAnalysis, json.RawMessage(`{not json`))
	assert.ErrorContains(t, err, "not JSON")

	_, err = store.SaveReport(ctx, types.ReportAnalysis, func() {})
	assert.ErrorContains(t, err, "failed to marshal")
}

func TestMemoryStore_RawPayloadKeptAsIs(t *testing.T) {
	store := NewMemoryStore()
	raw := json.RawMessage(`{"issues":[],"summary":{"errors":0}}`)

	id, err := store.SaveReport(context.Background(), types.ReportValidation, raw)
	require.NoError(t, err)
	report, err := store.GetReport(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(report.Payload))
}

func TestMemoryStore_ListReports(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, _ := store.SaveReport(ctx, types.ReportContrast, 1)
	second, _ := store.SaveReport(ctx, types.ReportValidation, 2)
	third, _ := store.SaveReport(ctx, types.ReportContrast, 3)

	all, err := store.ListReports(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{third, second, first}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	contrast, err := store.ListReports(ctx, types.ReportContrast, 0)
	require.NoError(t, err)
	require.Len(t, contrast, 2)
	assert.Equal(t, third, contrast[0].ID)

	limited, err := store.ListReports(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, third, limited[0].ID)
}
