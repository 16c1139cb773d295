package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdulachik/trendfeed/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	s, err := New(ctx, filepath.Join(t.TempDir(), "trendfeed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func testSnapshot(title string, at time.Time) *snapshot.Snapshot {
	return snapshot.New([]snapshot.Item{
		{Title: title, URL: "https://github.com/" + title, Summary: "要約", Stars: "1", Forks: "0", AddStars: "0"},
	}, at)
}

func TestStore_Latest_Empty(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.Latest(context.Background())

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_PutAndLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := testSnapshot("owner/repo", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Items, got.Items)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
}

func TestStore_Put_Overwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testSnapshot("first/repo", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	second := testSnapshot("second/repo", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	require.NoError(t, s.Put(ctx, first))
	require.NoError(t, s.Put(ctx, second))

	got, err := s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "second/repo", got.Items[0].Title)
	assert.True(t, second.GeneratedAt.Equal(got.GeneratedAt))
}

func TestStore_Migrate_Idempotent(t *testing.T) {
	s := newTestStore(t)

	// Running migrations again must be a no-op.
	require.NoError(t, s.Migrate(context.Background()))
}
