package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-tracker/internal/ports/snapshot"
)

func TestStateStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Skip("DB_DSN not set")
	}
	ctx := context.Background()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	s, err := NewStateStore(ctx, db)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, `DELETE FROM state WHERE bucket = $1`, "test_bucket")
		_ = s.Close()
	})

	_, err = s.Load(ctx, "test_bucket")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	require.NoError(t, s.Save(ctx, "test_bucket", []byte(`[{"id":"p1"}]`)))
	require.NoError(t, s.Save(ctx, "test_bucket", []byte(`[]`)))

	got, err := s.Load(ctx, "test_bucket")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))
}
