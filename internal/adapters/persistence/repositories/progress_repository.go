package repositories

import (
	"context"

	"nirman-fieldworks/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// progressRepository implements ProgressRepository interface
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Create creates a progress update together with its image rows
func (r *progressRepository) Create(ctx context.Context, update *models.ProgressUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

// ListByProposal lists progress updates for a proposal, newest first
func (r *progressRepository) ListByProposal(ctx context.Context, proposalID uint) ([]*models.ProgressUpdate, error) {
	var updates []*models.ProgressUpdate
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("work_proposal_id = ?", proposalID).
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// ListImagePaths returns every stored upload path referenced by the database.
// Used by the cleanup job to find orphaned files on disk.
func (r *progressRepository) ListImagePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&models.ProgressImage{}).
		Pluck("stored_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}
