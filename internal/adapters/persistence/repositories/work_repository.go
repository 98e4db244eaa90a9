package repositories

import (
	"context"

	"nirman-fieldworks/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// workProposalRepository implements WorkProposalRepository interface
type workProposalRepository struct {
	db *gorm.DB
}

// NewWorkProposalRepository creates a new work proposal repository
func NewWorkProposalRepository(db *gorm.DB) WorkProposalRepository {
	return &workProposalRepository{db: db}
}

// Create creates a new work proposal
func (r *workProposalRepository) Create(ctx context.Context, proposal *models.WorkProposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetByID gets a work proposal by ID with its progress history
func (r *workProposalRepository) GetByID(ctx context.Context, id uint) (*models.WorkProposal, error) {
	var proposal models.WorkProposal
	err := r.db.WithContext(ctx).
		Preload("Progress", func(db *gorm.DB) *gorm.DB {
			return db.Order("progress_updates.created_at DESC")
		}).
		Preload("Progress.Images").
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// List lists work proposals with pagination, newest first
func (r *workProposalRepository) List(ctx context.Context, offset, limit int) ([]*models.WorkProposal, int64, error) {
	var proposals []*models.WorkProposal
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.WorkProposal{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}

	return proposals, total, nil
}

// ListByAssignee lists proposals assigned to a specific user
func (r *workProposalRepository) ListByAssignee(ctx context.Context, assigneeID uint, offset, limit int) ([]*models.WorkProposal, int64, error) {
	var proposals []*models.WorkProposal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.WorkProposal{}).Where("assignee_id = ?", assigneeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}

	return proposals, total, nil
}

// Update updates a work proposal
func (r *workProposalRepository) Update(ctx context.Context, proposal *models.WorkProposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

// Delete soft deletes a work proposal
func (r *workProposalRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.WorkProposal{}, id).Error
}
