// Package ops implements the offline maintenance tasks: backup, restore,
// restore drills and JSON/CSV exchange against a data directory.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"taskboard/internal/store"
)

var ErrBadArchive = errors.New("invalid backup archive")

// Manifest describes what a backup captured.
type Manifest struct {
	Archive string   `json:"archive"`
	Keys    []string `json:"keys"`
	Digest  string   `json:"digest"`
}

// Backup writes every key file of fs into a gzipped tar at archivePath.
// The store lock is held for the whole read so the snapshot is consistent.
func Backup(ctx context.Context, fs *store.FileStore, archivePath string) (Manifest, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if archivePath == "" || archivePath == "." {
		return Manifest{}, fmt.Errorf("archive path is required")
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Manifest{}, err
	}

	m := Manifest{Archive: archivePath}
	err := fs.WithLock(ctx, func() error {
		files, err := keyFiles(fs.Dir())
		if err != nil {
			return err
		}

		f, err := os.Create(archivePath)
		if err != nil {
			return err
		}
		defer f.Close()

		gz := gzip.NewWriter(f)
		tw := tar.NewWriter(gz)
		h := newDigest()

		for _, kf := range files {
			b, err := os.ReadFile(filepath.Join(fs.Dir(), kf.name))
			if err != nil {
				return err
			}
			hdr := &tar.Header{
				Name:     kf.name,
				Typeflag: tar.TypeReg,
				Mode:     0o644,
				Size:     int64(len(b)),
				ModTime:  kf.modTime,
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			if _, err := tw.Write(b); err != nil {
				return err
			}
			h.add(kf.name, b)
			m.Keys = append(m.Keys, kf.key)
		}

		if err := tw.Close(); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
		m.Digest = h.sum()
		return f.Close()
	})
	if err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Restore replaces the key files in targetDir with the archive's content.
// Keys absent from the archive are removed. Entries are staged first so a
// malformed archive leaves the target untouched.
func Restore(ctx context.Context, archivePath, targetDir string) (Manifest, error) {
	target, err := store.NewFileStore(targetDir)
	if err != nil {
		return Manifest{}, err
	}

	stage, err := os.MkdirTemp(target.Dir(), ".restore-*")
	if err != nil {
		return Manifest{}, err
	}
	defer os.RemoveAll(stage)

	m, err := extract(archivePath, stage)
	if err != nil {
		return Manifest{}, err
	}

	err = target.WithLock(ctx, func() error {
		existing, err := keyFiles(target.Dir())
		if err != nil {
			return err
		}
		keep := make(map[string]bool, len(m.Keys))
		for _, k := range m.Keys {
			keep[k] = true
			name := store.FileName(k)
			if err := os.Rename(filepath.Join(stage, name), filepath.Join(target.Dir(), name)); err != nil {
				return err
			}
		}
		for _, kf := range existing {
			if keep[kf.key] {
				continue
			}
			if err := os.Remove(filepath.Join(target.Dir(), kf.name)); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func extract(archivePath, dir string) (Manifest, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	defer gz.Close()

	m := Manifest{Archive: archivePath}
	h := newDigest()
	seen := map[string]bool{}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Manifest{}, fmt.Errorf("%w: %v", ErrBadArchive, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			continue
		case tar.TypeReg:
		default:
			return Manifest{}, fmt.Errorf("%w: unsupported entry %s", ErrBadArchive, hdr.Name)
		}

		key, err := entryKey(hdr.Name)
		if err != nil {
			return Manifest{}, err
		}
		if seen[key] {
			return Manifest{}, fmt.Errorf("%w: duplicate entry %s", ErrBadArchive, hdr.Name)
		}
		seen[key] = true

		b, err := io.ReadAll(tr)
		if err != nil {
			return Manifest{}, fmt.Errorf("%w: %v", ErrBadArchive, err)
		}
		if err := os.WriteFile(filepath.Join(dir, store.FileName(key)), b, 0o644); err != nil {
			return Manifest{}, err
		}
		h.add(store.FileName(key), b)
		m.Keys = append(m.Keys, key)
	}

	sort.Strings(m.Keys)
	m.Digest = h.sum()
	return m, nil
}

// entryKey accepts only flat "<key>.json" entries.
func entryKey(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(strings.TrimSpace(name), "./"))
	if clean != path.Base(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: entry path %q escapes the data dir", ErrBadArchive, name)
	}
	key, ok := store.KeyFromFileName(clean)
	if !ok {
		return "", fmt.Errorf("%w: unexpected entry %q", ErrBadArchive, name)
	}
	return key, nil
}

type keyFile struct {
	key     string
	name    string
	modTime time.Time
}

// keyFiles lists the store key files of dir sorted by name.
func keyFiles(dir string) ([]keyFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []keyFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := store.KeyFromFileName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, keyFile{key: key, name: e.Name(), modTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

// digest hashes name/content pairs in name order.
type digest struct {
	entries map[string][]byte
}

func newDigest() *digest { return &digest{entries: map[string][]byte{}} }

func (d *digest) add(name string, b []byte) { d.entries[name] = b }

func (d *digest) sum() string {
	names := make([]string, 0, len(d.entries))
	for n := range d.entries {
		names = append(names, n)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, n := range names {
		_, _ = io.WriteString(h, n)
		_, _ = io.WriteString(h, "\n")
		_, _ = h.Write(d.entries[n])
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Digest hashes the key files currently in dir.
func Digest(dir string) (string, error) {
	files, err := keyFiles(dir)
	if err != nil {
		return "", err
	}
	d := newDigest()
	for _, kf := range files {
		b, err := os.ReadFile(filepath.Join(dir, kf.name))
		if err != nil {
			return "", err
		}
		d.add(kf.name, b)
	}
	return d.sum(), nil
}
