package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/daveokon/medistaff/internal/config"
	"github.com/daveokon/medistaff/internal/core"
	"github.com/daveokon/medistaff/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

var _ core.DbClient = (*DatabaseClient)(nil)

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, first_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), COALESCE($6, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.FirstName, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, first_name, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.FirstName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Staff members

func (c *DatabaseClient) CreateStaffMember(ctx context.Context, m *models.StaffMember) error {
	if m == nil {
		return errors.New("nil staff member")
	}
	const q = `
		INSERT INTO staff_members
			(id, full_name, email, role, department, specialty, phone, avatar_url, bio, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()), COALESCE($11, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		m.ID, m.FullName, m.Email, m.Role, m.Department, m.Specialty, m.Phone, m.AvatarURL, m.Bio, m.CreatedAt, m.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetStaffMemberByID(ctx context.Context, id string) (*models.StaffMember, error) {
	const q = `
		SELECT id, full_name, email, role, department, specialty, phone, avatar_url, bio, created_at, updated_at
		FROM staff_members
		WHERE id = $1
	`
	var m models.StaffMember
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.FullName, &m.Email, &m.Role, &m.Department, &m.Specialty, &m.Phone, &m.AvatarURL, &m.Bio, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *DatabaseClient) ListStaffMembers(ctx context.Context, role string) ([]models.StaffMember, error) {
	const q = `
		SELECT id, full_name, email, role, department, specialty, phone, avatar_url, bio, created_at, updated_at
		FROM staff_members
		WHERE $1 = '' OR role = $1
		ORDER BY full_name
	`
	rows, err := c.db.QueryContext(ctx, q, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StaffMember
	for rows.Next() {
		var m models.StaffMember
		if err := rows.Scan(
			&m.ID, &m.FullName, &m.Email, &m.Role, &m.Department, &m.Specialty, &m.Phone, &m.AvatarURL, &m.Bio, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateStaffMember(ctx context.Context, m *models.StaffMember) error {
	if m == nil {
		return errors.New("nil staff member")
	}
	const q = `
		UPDATE staff_members
		SET full_name = $2, email = $3, role = $4, department = $5, specialty = $6,
		    phone = $7, bio = $8, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q,
		m.ID, m.FullName, m.Email, m.Role, m.Department, m.Specialty, m.Phone, m.Bio)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("staff member not found: %s", m.ID)
	}
	return nil
}

func (c *DatabaseClient) UpdateStaffAvatar(ctx context.Context, id, avatarURL string) error {
	const q = `
		UPDATE staff_members
		SET avatar_url = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, avatarURL)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("staff member not found: %s", id)
	}
	return nil
}

func (c *DatabaseClient) DeleteStaffMember(ctx context.Context, id string) error {
	const q = `DELETE FROM staff_members WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("staff member not found: %s", id)
	}
	return nil
}

// Consultations

func (c *DatabaseClient) CreateConsultation(ctx context.Context, con *models.Consultation) error {
	if con == nil {
		return errors.New("nil consultation")
	}
	const q = `
		INSERT INTO consultations
			(id, staff_id, patient_name, notes, status, scheduled_at, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, COALESCE($7, now()), COALESCE($8, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		con.ID, con.StaffID, con.PatientName, con.Notes, con.Status, con.ScheduledAt, con.CreatedAt, con.UpdatedAt)
	return err
}

func (c *DatabaseClient) ListConsultationsByStaff(ctx context.Context, staffID string) ([]models.Consultation, error) {
	const q = `
		SELECT id, staff_id, patient_name, notes, status, scheduled_at, created_at, updated_at
		FROM consultations
		WHERE staff_id = $1
		ORDER BY scheduled_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Consultation
	for rows.Next() {
		var con models.Consultation
		if err := rows.Scan(
			&con.ID, &con.StaffID, &con.PatientName, &con.Notes, &con.Status, &con.ScheduledAt, &con.CreatedAt, &con.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, con)
	}
	return out, rows.Err()
}
