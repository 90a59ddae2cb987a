package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedThing struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var got namedThing
			ok, err := s.Get(ctx, KeyTasks, &got)
			require.NoError(t, err)
			assert.False(t, ok)

			want := namedThing{Name: "a", Items: []string{"x", "y"}}
			require.NoError(t, s.Set(ctx, KeyTasks, want))

			ok, err = s.Get(ctx, KeyTasks, &got)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, got)

			require.NoError(t, s.Delete(ctx, KeyTasks))
			ok, err = s.Get(ctx, KeyTasks, &got)
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting a missing key is fine
			assert.NoError(t, s.Delete(ctx, KeyTasks))
		})
	}
}

func TestStore_GetOrDefault(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v, err := GetOr(ctx, s, KeyCompactView, true)
			require.NoError(t, err)
			assert.True(t, v)

			require.NoError(t, s.Set(ctx, KeyCompactView, false))
			v, err = GetOr(ctx, s, KeyCompactView, true)
			require.NoError(t, err)
			assert.False(t, v)
		})
	}
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", "has space"} {
				assert.ErrorIs(t, s.Set(ctx, key, 1), ErrInvalidKey, key)
				_, err := s.Get(ctx, key, new(int))
				assert.ErrorIs(t, err, ErrInvalidKey, key)
			}
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, KeyColumns, []string{"todo", "done"}))
	require.NoError(t, s1.Set(ctx, KeySchemaVersion, 3))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	cols, err := GetOr(ctx, s2, KeyColumns, []string(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"todo", "done"}, cols)

	keys, err := s2.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyColumns, KeySchemaVersion}, keys)

	_, err = os.Stat(filepath.Join(dir, "columns.json"))
	assert.NoError(t, err)
}

func TestFileStore_CorruptValueIsAnError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{not json"), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	_, err = s.Get(ctx, KeyTasks, new([]namedThing))
	assert.Error(t, err)
}

func TestKeyFromFileName(t *testing.T) {
	key, ok := KeyFromFileName(FileName(KeyTasks))
	require.True(t, ok)
	assert.Equal(t, KeyTasks, key)

	for _, name := range []string{"tasks.txt", ".taskboard.lock", "../tasks.json", "a/b.json", ".json"} {
		_, ok := KeyFromFileName(name)
		assert.False(t, ok, name)
	}
}
