package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csvlayout/internal/config"
)

func newTestFileStore(t *testing.T, name string) *FileStore {
	t.Helper()
	s := NewFileStore(filepath.Join(t.TempDir(), name))
	tick := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return s
}

func TestFileStore_CRUD(t *testing.T) {
	for _, name := range []string{"csv_profiles.json", "profiles.yaml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestFileStore(t, name)

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			p := New("顧客")
			p.Rules.Merge = "氏名:姓,名,"
			created, err := s.Create(ctx, p)
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.False(t, created.CreatedAt.IsZero())

			got, err := s.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, got)

			byName, err := s.GetByName(ctx, "顧客")
			require.NoError(t, err)
			assert.Equal(t, created.ID, byName.ID)

			got.Rules.Reorder = "氏名"
			got.Name = "顧客2"
			updated, err := s.Update(ctx, *got)
			require.NoError(t, err)
			assert.Equal(t, created.CreatedAt, updated.CreatedAt)
			assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

			_, err = s.GetByName(ctx, "顧客")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Delete(ctx, created.ID))
			assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrNotFound)

			list, err = s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestFileStore_Conflicts(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t, "p.json")

	a, err := s.Create(ctx, New("a"))
	require.NoError(t, err)
	_, err = s.Create(ctx, New("b"))
	require.NoError(t, err)

	_, err = s.Create(ctx, New(" a "))
	assert.ErrorIs(t, err, ErrDuplicate)

	a.Name = "b"
	_, err = s.Update(ctx, *a)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.Update(ctx, Profile{ID: "nope", Name: "c"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Create(ctx, New(""))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFileStore_LegacyFileGetsIDs(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "csv_profiles.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyDocument), 0o644))

	s := NewFileStore(path)
	first, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), first[0].ID)
	assert.Contains(t, string(data), `"remove_header": true`)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csv_profiles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).List(context.Background())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestOpen_FileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	cfg := &config.Config{Profiles: config.ProfilesConfig{Store: config.StoreFile, Path: path}}

	store, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	fs, ok := store.(*FileStore)
	require.True(t, ok)
	assert.Equal(t, path, fs.Path())
	assert.Equal(t, FormatYAML, fs.format)
}

func TestOpen_UnknownStore(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{Profiles: config.ProfilesConfig{Store: "redis"}})
	require.Error(t, err)
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "profiles", databaseName("postgres://user:pw@localhost:5432/profiles?sslmode=disable"))
	assert.Equal(t, "", databaseName("host=localhost dbname=x"))
}
