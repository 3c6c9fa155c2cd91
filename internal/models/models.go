package models

import (
	"time"
)

// Chat message roles. Order of messages is the literal prompt order sent to
// the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User represents an authenticated account (staff members log in with these).
type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StaffMember is a directory entry: doctor, head of department, or trustee.
type StaffMember struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	Role       string    `db:"role" json:"role"` // doctor | hod | trustee
	Department string    `db:"department" json:"department"`
	Specialty  string    `db:"specialty" json:"specialty,omitempty"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	AvatarURL  string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio        string    `db:"bio" json:"bio,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Consultation is a scheduled or completed consultation with a staff member.
type Consultation struct {
	ID          string    `db:"id" json:"id"`
	StaffID     string    `db:"staff_id" json:"staff_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	Notes       string    `db:"notes" json:"notes,omitempty"`
	Status      string    `db:"status" json:"status"` // scheduled | completed | cancelled
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ChatMessage is one entry of a conversation. The JSON shape matches the
// OpenAI-compatible wire format, so a []ChatMessage marshals directly into a
// completion request body.
type ChatMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}
