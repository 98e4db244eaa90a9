package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"nirman-fieldworks/internal/adapters/persistence/repositories"
	"nirman-fieldworks/internal/config"

	"github.com/robfig/cron/v3"
)

// minUploadAge keeps files that may belong to an in-flight submission.
const minUploadAge = time.Hour

// CleanupService removes upload files that no progress record references.
// Submissions that fail after their files were written leave orphans behind;
// a nightly sweep keeps the upload directory bounded.
type CleanupService struct {
	progressRepo repositories.ProgressRepository
	cfg          *config.Config
	cron         *cron.Cron
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(progressRepo repositories.ProgressRepository, cfg *config.Config) *CleanupService {
	return &CleanupService{
		progressRepo: progressRepo,
		cfg:          cfg,
		cron:         cron.New(),
	}
}

// Start schedules the nightly sweep (02:30 daily)
func (s *CleanupService) Start() {
	s.cron.AddFunc("30 2 * * *", func() {
		if err := s.SweepOrphanedUploads(context.Background()); err != nil {
			log.Printf("⚠️ Upload sweep failed: %v", err)
		}
	})
	s.cron.Start()
	log.Println("✅ Upload cleanup job scheduled (02:30 daily)")
}

// Stop stops the scheduler
func (s *CleanupService) Stop() {
	s.cron.Stop()
}

// SweepOrphanedUploads deletes files in the upload directory that are not
// referenced by any progress image row and are old enough to be safe.
func (s *CleanupService) SweepOrphanedUploads(ctx context.Context) error {
	referenced, err := s.progressRepo.ListImagePaths(ctx)
	if err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[filepath.Clean(p)] = struct{}{}
	}

	entries, err := os.ReadDir(s.cfg.Upload.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Clean(filepath.Join(s.cfg.Upload.Path, entry.Name()))
		if _, ok := keep[path]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < minUploadAge {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}

	if removed > 0 {
		log.Printf("🧹 Upload sweep removed %d orphaned file(s)", removed)
	}
	return nil
}
