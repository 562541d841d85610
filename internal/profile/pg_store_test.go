package profile

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPgStore runs against TEST_DATABASE_URL inside a transaction that is
// rolled back afterwards.
func TestPgStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(ctx) })

	s := NewPgStore(tx)
	require.NoError(t, s.EnsureSchema(ctx))

	p := New("pg-顧客")
	p.Rules.Merge = "氏名:姓,名,"
	p.RemoveHeader = true
	created, err := s.Create(ctx, p)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, p.Rules, created.Rules)

	_, err = s.Create(ctx, New("pg-顧客"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPgStore_CRUD(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(ctx) })

	s := NewPgStore(tx)
	require.NoError(t, s.EnsureSchema(ctx))

	created, err := s.Create(ctx, New("pg-a"))
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pg-a", got.Name)

	got.Name = "pg-b"
	got.Rules.Reorder = "x"
	updated, err := s.Update(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Rules.Reorder)

	byName, err := s.GetByName(ctx, "pg-b")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrNotFound)

	_, err = s.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}
