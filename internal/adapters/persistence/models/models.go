package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Work proposal lifecycle statuses. The mobile client renders these verbatim,
// so the strings are part of the API contract.
const (
	StatusPending                       = "Pending"
	StatusPendingTechnicalApproval      = "Pending Technical Approval"
	StatusRejectedTechnicalApproval     = "Rejected Technical Approval"
	StatusPendingAdministrativeApproval = "Pending Administrative Approval"
	StatusRejectedAdministrative        = "Rejected Administrative Approval"
	StatusPendingTender                 = "Pending Tender"
	StatusTenderInProgress              = "Tender In Progress"
	StatusPendingWorkOrder              = "Pending Work Order"
	StatusWorkOrderCreated              = "Work Order Created"
	StatusWorkInProgress                = "Work In Progress"
	StatusWorkCompleted                 = "Work Completed"
	StatusWorkCancelled                 = "Work Cancelled"
	StatusWorkStopped                   = "Work Stopped"
	StatusWorkNotStarted                = "Work Not Started"
)

// ValidStatuses lists every accepted currentStatus value.
var ValidStatuses = []string{
	StatusPending,
	StatusPendingTechnicalApproval,
	StatusRejectedTechnicalApproval,
	StatusPendingAdministrativeApproval,
	StatusRejectedAdministrative,
	StatusPendingTender,
	StatusTenderInProgress,
	StatusPendingWorkOrder,
	StatusWorkOrderCreated,
	StatusWorkInProgress,
	StatusWorkCompleted,
	StatusWorkCancelled,
	StatusWorkStopped,
	StatusWorkNotStarted,
}

// IsValidStatus reports whether s is a known lifecycle status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// User represents users table
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	Role       string         `gorm:"size:30;default:'FIELD_ENGINEER'" json:"role"`
	Department string         `gorm:"size:100" json:"department,omitempty"`
	IsActive   bool           `gorm:"default:true" json:"isActive"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

// WorkProposal represents work_proposals table
type WorkProposal struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	NameOfWork       string           `gorm:"size:255;not null" json:"nameOfWork"`
	Description      string           `gorm:"type:text" json:"description,omitempty"`
	CurrentStatus    string           `gorm:"size:50;default:'Pending';index" json:"currentStatus"`
	Location         string           `gorm:"size:255" json:"location,omitempty"`
	WorkAgency       string           `gorm:"size:255" json:"workAgency,omitempty"`
	SanctionedAmount float64          `gorm:"type:decimal(14,2)" json:"sanctionedAmount,omitempty"`
	AssigneeID       *uint            `gorm:"index" json:"assigneeId,omitempty"`
	Assignee         *User            `gorm:"foreignKey:AssigneeID" json:"-"`
	Latitude         *float64         `json:"latitude,omitempty"`
	Longitude        *float64         `json:"longitude,omitempty"`
	Progress         []ProgressUpdate `gorm:"foreignKey:WorkProposalID" json:"progress,omitempty"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (WorkProposal) TableName() string {
	return "work_proposals"
}

// ProgressUpdate represents progress_updates table.
// Installments is stored as the JSON string the client submitted and
// re-emitted verbatim, so the column never constrains its shape.
type ProgressUpdate struct {
	ID                       uint            `gorm:"primaryKey" json:"id"`
	WorkProposalID           uint            `gorm:"index;not null" json:"workProposalId"`
	SubmittedByID            uint            `gorm:"index" json:"submittedById"`
	SubmittedBy              *User           `gorm:"foreignKey:SubmittedByID" json:"-"`
	Description              string          `gorm:"type:text" json:"desc,omitempty"`
	SanctionedAmount         string          `gorm:"size:50" json:"sanctionedAmount,omitempty"`
	TotalAmountReleasedSoFar string          `gorm:"size:50" json:"totalAmountReleasedSoFar,omitempty"`
	RemainingBalance         string          `gorm:"size:50" json:"remainingBalance,omitempty"`
	ExpenditureAmount        string          `gorm:"size:50" json:"expenditureAmount,omitempty"`
	MBStage                  string          `gorm:"column:mb_stage;size:100" json:"mbStageMeasurementBookStag,omitempty"`
	Installments             string          `gorm:"type:text" json:"-"`
	Latitude                 *float64        `json:"latitude,omitempty"`
	Longitude                *float64        `json:"longitude,omitempty"`
	Images                   []ProgressImage `gorm:"foreignKey:ProgressUpdateID" json:"images,omitempty"`
	CreatedAt                time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

func (ProgressUpdate) TableName() string {
	return "progress_updates"
}

// MarshalJSON emits the stored installments string as raw JSON so the
// client reads back the same structure it submitted.
func (p ProgressUpdate) MarshalJSON() ([]byte, error) {
	type alias ProgressUpdate
	out := struct {
		alias
		Installments json.RawMessage `json:"installments,omitempty"`
	}{alias: alias(p)}
	if p.Installments != "" && json.Valid([]byte(p.Installments)) {
		out.Installments = json.RawMessage(p.Installments)
	}
	return json.Marshal(out)
}

// ProgressImage represents progress_images table
type ProgressImage struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ProgressUpdateID uint      `gorm:"index;not null" json:"progressUpdateId"`
	FieldName        string    `gorm:"size:20;default:'images'" json:"fieldName"`
	FileName         string    `gorm:"size:255;not null" json:"fileName"`
	StoredPath       string    `gorm:"size:512;not null" json:"storedPath"`
	MimeType         string    `gorm:"size:100" json:"mimeType,omitempty"`
	SizeBytes        int64     `json:"sizeBytes"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ProgressImage) TableName() string {
	return "progress_images"
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&WorkProposal{},
		&ProgressUpdate{},
		&ProgressImage{},
	)
}
