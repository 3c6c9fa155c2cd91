package core

import (
	"context"

	"github.com/daveokon/medistaff/internal/models"
)

// DbClient defines all persistence operations the handlers need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateStaffMember(ctx context.Context, m *models.StaffMember) error
	GetStaffMemberByID(ctx context.Context, id string) (*models.StaffMember, error)
	ListStaffMembers(ctx context.Context, role string) ([]models.StaffMember, error)
	UpdateStaffMember(ctx context.Context, m *models.StaffMember) error
	UpdateStaffAvatar(ctx context.Context, id, avatarURL string) error
	DeleteStaffMember(ctx context.Context, id string) error

	CreateConsultation(ctx context.Context, c *models.Consultation) error
	ListConsultationsByStaff(ctx context.Context, staffID string) ([]models.Consultation, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any S3-compatible object
// storage; avatars live there. Abstract so AWS can be swapped for MinIO etc.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
	GetFile(ctx context.Context, key string) ([]byte, error)
}
