package staff

import (
	"context"
	"database/sql"
	"fmt"

	"campuscms/internal/database"
	"campuscms/internal/models"
)

const selectStaff = `SELECT id, name, nip, position, title, email, phone, photo, education, expertise, bio,
	program_study_id, staff_type, "order", is_active FROM staff`

// Repository provides access to the staff directory.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new staff repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStaff(s scanner) (models.Staff, error) {
	var m models.Staff
	err := s.Scan(&m.ID, &m.Name, &m.NIP, &m.Position, &m.Title, &m.Email, &m.Phone, &m.Photo, &m.Education,
		&m.Expertise, &m.Bio, &m.ProgramStudyID, &m.StaffType, &m.Order, &m.IsActive)
	return m, err
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.Staff, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing staff: %w", err)
	}
	defer rows.Close()

	var members []models.Staff
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// List lists the whole directory by order, then name.
func (r *Repository) List(ctx context.Context) ([]models.Staff, error) {
	return r.list(ctx, selectStaff+` ORDER BY "order" ASC, name ASC`)
}

// ListActive lists active staff, optionally of one staff type.
func (r *Repository) ListActive(ctx context.Context, staffType string) ([]models.Staff, error) {
	if staffType == "" {
		return r.list(ctx, selectStaff+` WHERE is_active = 1 ORDER BY "order" ASC, name ASC`)
	}
	return r.list(ctx, selectStaff+` WHERE is_active = 1 AND staff_type = ? ORDER BY "order" ASC, name ASC`, staffType)
}

// FindByID finds a staff member by ID.
func (r *Repository) FindByID(ctx context.Context, id int) (models.Staff, error) {
	m, err := scanStaff(r.DB.QueryRowContext(ctx, selectStaff+" WHERE id = ?", id))
	return m, database.NotFound(err, "staff")
}

// Create inserts a staff member and sets its ID.
func (r *Repository) Create(ctx context.Context, m *models.Staff) error {
	if m.StaffType == "" {
		m.StaffType = models.StaffLecturer
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO staff
		(name, nip, position, title, email, phone, photo, education, expertise, bio, program_study_id, staff_type, "order", is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.NIP, m.Position, m.Title, m.Email, m.Phone, m.Photo, m.Education, m.Expertise, m.Bio,
		m.ProgramStudyID, m.StaffType, m.Order, m.IsActive)
	if err != nil {
		return fmt.Errorf("error creating staff: %w", err)
	}
	id, _ := res.LastInsertId()
	m.ID = int(id)
	return nil
}

// Update writes every column of m.
func (r *Repository) Update(ctx context.Context, m *models.Staff) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE staff SET
		name = ?, nip = ?, position = ?, title = ?, email = ?, phone = ?, photo = ?, education = ?, expertise = ?,
		bio = ?, program_study_id = ?, staff_type = ?, "order" = ?, is_active = ?
		WHERE id = ?`,
		m.Name, m.NIP, m.Position, m.Title, m.Email, m.Phone, m.Photo, m.Education, m.Expertise, m.Bio,
		m.ProgramStudyID, m.StaffType, m.Order, m.IsActive, m.ID)
	if err != nil {
		return fmt.Errorf("error updating staff: %w", err)
	}
	return database.CheckAffected(res, "staff")
}

// Delete removes a staff member.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM staff WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error deleting staff: %w", err)
	}
	return database.CheckAffected(res, "staff")
}
