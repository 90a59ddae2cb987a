package ops

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/store"
)

func seededStore(t *testing.T) *store.FileStore {
	t.Helper()
	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, store.KeyTasks, []map[string]any{{"id": "t1", "title": "Laundry"}}))
	require.NoError(t, fs.Set(ctx, store.KeyColumns, []map[string]any{{"id": "todo", "title": "To Do"}}))
	require.NoError(t, fs.Set(ctx, store.KeySchemaVersion, 2))
	require.NoError(t, os.WriteFile(filepath.Join(fs.Dir(), "notes.txt"), []byte("not a key"), 0o644))
	return fs
}

func readDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	got := map[string]string{}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := store.KeyFromFileName(e.Name()); !ok {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		got[e.Name()] = string(b)
	}
	return got
}

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	archive := filepath.Join(t.TempDir(), "handmade.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, body := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return archive
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := seededStore(t)

	archive := filepath.Join(t.TempDir(), "backups", "b.tar.gz")
	m, err := Backup(ctx, fs, archive)
	require.NoError(t, err)
	assert.Equal(t, []string{store.KeyColumns, store.KeySchemaVersion, store.KeyTasks}, m.Keys)
	assert.FileExists(t, archive)

	restoreDir := filepath.Join(t.TempDir(), "restore")
	restored, err := Restore(ctx, archive, restoreDir)
	require.NoError(t, err)
	assert.Equal(t, m.Digest, restored.Digest)
	assert.Equal(t, m.Keys, restored.Keys)

	assert.Equal(t, readDir(t, fs.Dir()), readDir(t, restoreDir))
	assert.NoFileExists(t, filepath.Join(restoreDir, "notes.txt"))

	onDisk, err := Digest(restoreDir)
	require.NoError(t, err)
	assert.Equal(t, m.Digest, onDisk)

	rs, err := store.NewFileStore(restoreDir)
	require.NoError(t, err)
	var version int
	ok, err := rs.Get(ctx, store.KeySchemaVersion, &version)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, version)
}

func TestRestore_ReplacesExistingKeys(t *testing.T) {
	ctx := context.Background()
	archive := writeArchive(t, map[string]string{"tasks.json": `[]`})

	target, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, target.Set(ctx, store.KeyTasks, []string{"old"}))
	require.NoError(t, target.Set(ctx, store.KeyTemplates, []string{"stale"}))

	_, err = Restore(ctx, archive, target.Dir())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"tasks.json": `[]`}, readDir(t, target.Dir()))
}

func TestRestore_RejectsPathTraversal(t *testing.T) {
	ctx := context.Background()
	target, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, target.Set(ctx, store.KeyTasks, []string{"keep"}))
	before := readDir(t, target.Dir())

	for _, name := range []string{"../escape.json", "nested/tasks.json", "/abs.json", "notes.txt"} {
		archive := writeArchive(t, map[string]string{name: "bad"})
		_, err := Restore(ctx, archive, target.Dir())
		require.ErrorIs(t, err, ErrBadArchive, name)
	}

	assert.Equal(t, before, readDir(t, target.Dir()))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(target.Dir()), "escape.json"))
}

func TestRestore_NotAnArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "junk.tar.gz")
	require.NoError(t, os.WriteFile(p, []byte("plain text"), 0o644))

	_, err := Restore(context.Background(), p, t.TempDir())
	require.ErrorIs(t, err, ErrBadArchive)
}

func TestDrill(t *testing.T) {
	fs := seededStore(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	report, err := Drill(context.Background(), fs, t.TempDir(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Keys)
	assert.Contains(t, report.Archive, "taskboard-drill-20250310T090000Z")
	assert.FileExists(t, report.Archive)

	want, err := Digest(fs.Dir())
	require.NoError(t, err)
	assert.Equal(t, want, report.Digest)
}

func TestDefaultArchivePath(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("backups", "taskboard-20250310T090000Z.tar.gz"), DefaultArchivePath("backups", now))
}
