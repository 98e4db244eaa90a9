package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nirman-fieldworks/internal/adapters/persistence/models"
	"nirman-fieldworks/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProgressRepo struct {
	paths []string
}

func (s *stubProgressRepo) Create(context.Context, *models.ProgressUpdate) error { return nil }

func (s *stubProgressRepo) ListByProposal(context.Context, uint) ([]*models.ProgressUpdate, error) {
	return nil, nil
}

func (s *stubProgressRepo) ListImagePaths(context.Context) ([]string, error) {
	return s.paths, nil
}

func writeUpload(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestSweepRemovesOnlyOldOrphans(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Upload.Path = dir

	referenced := writeUpload(t, dir, "referenced.jpg", 48*time.Hour)
	orphan := writeUpload(t, dir, "orphan.jpg", 48*time.Hour)
	fresh := writeUpload(t, dir, "fresh.jpg", time.Minute)

	svc := NewCleanupService(&stubProgressRepo{paths: []string{referenced}}, cfg)
	require.NoError(t, svc.SweepOrphanedUploads(context.Background()))

	_, err := os.Stat(referenced)
	assert.NoError(t, err, "referenced files survive")
	_, err = os.Stat(fresh)
	assert.NoError(t, err, "recent files survive an in-flight submission")
	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err), "old orphans are removed")
}

func TestSweepMissingUploadDirIsNoop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Upload.Path = filepath.Join(t.TempDir(), "does-not-exist")

	svc := NewCleanupService(&stubProgressRepo{}, cfg)
	assert.NoError(t, svc.SweepOrphanedUploads(context.Background()))
}
