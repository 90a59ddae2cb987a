package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskboard/internal/store"
)

type DrillReport struct {
	Archive    string `json:"archive"`
	RestoreDir string `json:"restoreDir"`
	Keys       int    `json:"keys"`
	Digest     string `json:"digest"`
}

// Drill backs fs up into workDir, restores the archive into a fresh
// directory next to it and checks that the restored digest matches.
func Drill(ctx context.Context, fs *store.FileStore, workDir string, now time.Time) (DrillReport, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillReport{}, err
	}
	ts := now.UTC().Format("20060102T150405Z")
	archive := filepath.Join(workDir, "taskboard-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(workDir, "taskboard-drill-restore-"+ts)

	backup, err := Backup(ctx, fs, archive)
	if err != nil {
		return DrillReport{}, fmt.Errorf("backup: %w", err)
	}
	restored, err := Restore(ctx, archive, restoreDir)
	if err != nil {
		return DrillReport{}, fmt.Errorf("restore: %w", err)
	}
	onDisk, err := Digest(restoreDir)
	if err != nil {
		return DrillReport{}, err
	}
	if backup.Digest != restored.Digest || backup.Digest != onDisk {
		return DrillReport{}, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", backup.Digest, onDisk)
	}

	return DrillReport{
		Archive:    archive,
		RestoreDir: restoreDir,
		Keys:       len(backup.Keys),
		Digest:     backup.Digest,
	}, nil
}

// DefaultArchivePath names a timestamped archive under dir.
func DefaultArchivePath(dir string, now time.Time) string {
	return filepath.Join(dir, "taskboard-"+now.UTC().Format("20060102T150405Z")+".tar.gz")
}
