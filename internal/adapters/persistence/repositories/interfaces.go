package repositories

import (
	"context"

	"nirman-fieldworks/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// WorkProposalRepository defines work proposal repository interface
type WorkProposalRepository interface {
	Create(ctx context.Context, proposal *models.WorkProposal) error
	GetByID(ctx context.Context, id uint) (*models.WorkProposal, error)
	List(ctx context.Context, offset, limit int) ([]*models.WorkProposal, int64, error)
	ListByAssignee(ctx context.Context, assigneeID uint, offset, limit int) ([]*models.WorkProposal, int64, error)
	Update(ctx context.Context, proposal *models.WorkProposal) error
	Delete(ctx context.Context, id uint) error
}

// ProgressRepository defines progress update repository interface
type ProgressRepository interface {
	Create(ctx context.Context, update *models.ProgressUpdate) error
	ListByProposal(ctx context.Context, proposalID uint) ([]*models.ProgressUpdate, error)
	ListImagePaths(ctx context.Context) ([]string, error)
}
