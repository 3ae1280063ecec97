package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-tracker/internal/adapters/medinfo/remote"
	"medication-tracker/internal/adapters/medinfo/stub"
	"medication-tracker/internal/domain/plans"
	"medication-tracker/internal/platform/config"
)

func TestNew_SQLiteSnapshotSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.FromEnv(func(k string) string {
		return map[string]string{
			"STORE_DRIVER":       "sqlite",
			"SQLITE_PATH":        filepath.Join(t.TempDir(), "medtracker.db"),
			"MEDINFO_STUB_DELAY": "0s",
		}[k]
	})
	require.NoError(t, err)

	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = a.Tracker.AddPlan(ctx, plans.TreatmentPlan{
		ID: "p1", Name: "Flu", StartDate: "2024-01-01", DurationDays: 3,
		Medications: []plans.Medication{{ID: "m1", Name: "A", Dosage: "1", TimesPerDay: 1, FirstDoseTime: "09:15"}},
	})
	require.NoError(t, err)
	_, err = a.Tracker.ToggleDoseTaken(ctx, "p1:m1:2024-01-02:0")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	v, err := b.Tracker.Today(ctx, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, 1, v.TakenCount)
	assert.Equal(t, "09:15", v.Taken[0].Time)

	rec := httptest.NewRecorder()
	b.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans/p1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"name":"Flu"`))
}

func TestNewInfoLookup_SelectsAdapter(t *testing.T) {
	l, err := NewInfoLookup(config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &stub.Lookup{}, l)

	l, err = NewInfoLookup(config.Config{MedInfoBaseURL: "http://localhost:9999"})
	require.NoError(t, err)
	assert.IsType(t, &remote.Client{}, l)
}
