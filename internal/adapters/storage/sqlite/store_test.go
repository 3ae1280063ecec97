package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-tracker/internal/ports/snapshot"
)

func TestStore_SaveLoadUpsert(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "medtracker.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Load(ctx, snapshot.KeyPlans)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	require.NoError(t, s.Save(ctx, snapshot.KeyPlans, []byte(`[{"id":"p1"}]`)))
	require.NoError(t, s.Save(ctx, snapshot.KeyPlans, []byte(`[{"id":"p2"}]`)))

	got, err := s.Load(ctx, snapshot.KeyPlans)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p2"}]`, string(got))
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "medtracker.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, snapshot.KeyDoses, []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Load(ctx, snapshot.KeyDoses)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}
