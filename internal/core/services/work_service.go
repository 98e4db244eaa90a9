package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"nirman-fieldworks/internal/adapters/persistence/models"
	"nirman-fieldworks/internal/adapters/persistence/repositories"
	"nirman-fieldworks/internal/config"
	"nirman-fieldworks/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkService handles work proposal business logic
type WorkService struct {
	workRepo     repositories.WorkProposalRepository
	progressRepo repositories.ProgressRepository
	cfg          *config.Config
}

// NewWorkService creates a new work service
func NewWorkService(
	workRepo repositories.WorkProposalRepository,
	progressRepo repositories.ProgressRepository,
	cfg *config.Config,
) *WorkService {
	return &WorkService{
		workRepo:     workRepo,
		progressRepo: progressRepo,
		cfg:          cfg,
	}
}

// CreateProposalInput represents work proposal creation input
type CreateProposalInput struct {
	NameOfWork       string   `json:"nameOfWork" validate:"required,min=3,max=255"`
	Description      string   `json:"description"`
	Location         string   `json:"location"`
	WorkAgency       string   `json:"workAgency"`
	SanctionedAmount float64  `json:"sanctionedAmount"`
	AssigneeID       *uint    `json:"assigneeId"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// UpdateProposalInput represents a partial update. Nil fields are untouched.
type UpdateProposalInput struct {
	NameOfWork       *string  `json:"nameOfWork"`
	Description      *string  `json:"description"`
	CurrentStatus    *string  `json:"currentStatus"`
	Location         *string  `json:"location"`
	WorkAgency       *string  `json:"workAgency"`
	SanctionedAmount *float64 `json:"sanctionedAmount"`
	AssigneeID       *uint    `json:"assigneeId"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// ProgressInput carries one progress submission as parsed from the
// multipart form. All scalar fields are optional; the wire format is
// text-only so monetary values arrive as strings.
type ProgressInput struct {
	Description              string
	SanctionedAmount         string
	TotalAmountReleasedSoFar string
	RemainingBalance         string
	ExpenditureAmount        string
	MBStage                  string
	Installments             string
	Latitude                 *float64
	Longitude                *float64
	Images                   []*multipart.FileHeader
	Document                 *multipart.FileHeader
}

// ListProposals lists work proposals with pagination
func (s *WorkService) ListProposals(ctx context.Context, offset, limit int) ([]*models.WorkProposal, int64, error) {
	return s.workRepo.List(ctx, offset, limit)
}

// GetProposal gets a work proposal by ID
func (s *WorkService) GetProposal(ctx context.Context, id uint) (*models.WorkProposal, error) {
	proposal, err := s.workRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return proposal, nil
}

// CreateProposal creates a new work proposal
func (s *WorkService) CreateProposal(ctx context.Context, input *CreateProposalInput) (*models.WorkProposal, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	proposal := &models.WorkProposal{
		NameOfWork:       strings.TrimSpace(input.NameOfWork),
		Description:      input.Description,
		CurrentStatus:    models.StatusPending,
		Location:         input.Location,
		WorkAgency:       input.WorkAgency,
		SanctionedAmount: input.SanctionedAmount,
		AssigneeID:       input.AssigneeID,
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
	}

	if err := s.workRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// UpdateProposal applies a partial update to a work proposal
func (s *WorkService) UpdateProposal(ctx context.Context, id uint, input *UpdateProposalInput) (*models.WorkProposal, error) {
	proposal, err := s.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CurrentStatus != nil {
		if !models.IsValidStatus(*input.CurrentStatus) {
			return nil, domain.ErrInvalidStatus
		}
		proposal.CurrentStatus = *input.CurrentStatus
	}
	if input.NameOfWork != nil {
		proposal.NameOfWork = strings.TrimSpace(*input.NameOfWork)
	}
	if input.Description != nil {
		proposal.Description = *input.Description
	}
	if input.Location != nil {
		proposal.Location = *input.Location
	}
	if input.WorkAgency != nil {
		proposal.WorkAgency = *input.WorkAgency
	}
	if input.SanctionedAmount != nil {
		proposal.SanctionedAmount = *input.SanctionedAmount
	}
	if input.AssigneeID != nil {
		proposal.AssigneeID = input.AssigneeID
	}
	if input.Latitude != nil {
		proposal.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		proposal.Longitude = input.Longitude
	}

	if err := s.workRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// SubmitProgress stores uploaded files and records a progress update
// against the proposal.
func (s *WorkService) SubmitProgress(ctx context.Context, proposalID, userID uint, input *ProgressInput) (*models.ProgressUpdate, error) {
	if _, err := s.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}

	if len(input.Images) > s.cfg.Upload.MaxImages {
		return nil, domain.ErrTooManyImages
	}
	if input.Installments != "" && !json.Valid([]byte(input.Installments)) {
		return nil, fmt.Errorf("%w: installments is not valid JSON", domain.ErrInvalidInput)
	}

	maxSize := int64(s.cfg.Upload.MaxFileSizeMB) << 20
	for _, fh := range input.Images {
		if fh.Size > maxSize {
			return nil, domain.ErrFileTooLarge
		}
	}
	if input.Document != nil && input.Document.Size > maxSize {
		return nil, domain.ErrFileTooLarge
	}

	update := &models.ProgressUpdate{
		WorkProposalID:           proposalID,
		SubmittedByID:            userID,
		Description:              input.Description,
		SanctionedAmount:         input.SanctionedAmount,
		TotalAmountReleasedSoFar: input.TotalAmountReleasedSoFar,
		RemainingBalance:         input.RemainingBalance,
		ExpenditureAmount:        input.ExpenditureAmount,
		MBStage:                  input.MBStage,
		Installments:             input.Installments,
		Latitude:                 input.Latitude,
		Longitude:                input.Longitude,
	}

	var saved []string
	cleanup := func() {
		for _, p := range saved {
			os.Remove(p)
		}
	}

	for _, fh := range input.Images {
		img, path, err := s.storeUpload(fh, "images")
		if err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, path)
		update.Images = append(update.Images, *img)
	}
	if input.Document != nil {
		doc, path, err := s.storeUpload(input.Document, "document")
		if err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, path)
		update.Images = append(update.Images, *doc)
	}

	if err := s.progressRepo.Create(ctx, update); err != nil {
		cleanup()
		return nil, err
	}

	return update, nil
}

// GetProgress returns the progress history for a proposal
func (s *WorkService) GetProgress(ctx context.Context, proposalID uint) ([]*models.ProgressUpdate, error) {
	if _, err := s.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	return s.progressRepo.ListByProposal(ctx, proposalID)
}

// storeUpload writes one multipart file into the upload directory under a
// uuid name, keeping the original extension for serving.
func (s *WorkService) storeUpload(fh *multipart.FileHeader, fieldName string) (*models.ProgressImage, string, error) {
	if err := os.MkdirAll(s.cfg.Upload.Path, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(fh.Filename)
	storedPath := filepath.Join(s.cfg.Upload.Path, uuid.NewString()+ext)

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(storedPath)
		return nil, "", fmt.Errorf("failed to write upload: %w", err)
	}

	return &models.ProgressImage{
		FieldName: fieldName,
		FileName:  fh.Filename,
		StoredPath: storedPath,
		MimeType:  fh.Header.Get("Content-Type"),
		SizeBytes: size,
	}, storedPath, nil
}
