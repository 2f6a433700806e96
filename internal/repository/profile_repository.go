package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgr/school-api/internal/models"
)

// ProfileRepository reads the role-specific profile tables.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ByAccount returns the profile row of an account given its role.
func (r *ProfileRepository) ByAccount(ctx context.Context, accountID string, role models.Role) (*models.Profile, error) {
	table, err := models.ProfileTable(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		`SELECT id, account_id, first_name, last_name FROM %s WHERE account_id = $1`, table)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, accountID); err != nil {
		return nil, fmt.Errorf("find %s profile by account: %w", role, err)
	}
	return &profile, nil
}

// TeacherByID returns one teacher profile.
func (r *ProfileRepository) TeacherByID(ctx context.Context, id int64) (*models.Profile, error) {
	const query = `SELECT id, account_id, first_name, last_name FROM teachers WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, fmt.Errorf("find teacher %d: %w", id, err)
	}
	return &profile, nil
}

// StudentByID returns one student profile.
func (r *ProfileRepository) StudentByID(ctx context.Context, id int64) (*models.Profile, error) {
	const query = `SELECT id, account_id, first_name, last_name FROM students WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, fmt.Errorf("find student %d: %w", id, err)
	}
	return &profile, nil
}

// ListTeachers returns all teachers ordered by last name.
func (r *ProfileRepository) ListTeachers(ctx context.Context) ([]models.TeacherInfo, error) {
	const query = `SELECT id, first_name, last_name FROM teachers ORDER BY last_name ASC, first_name ASC`
	var teachers []models.TeacherInfo
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListStudents returns all students with their class names, ordered by last
// name.
func (r *ProfileRepository) ListStudents(ctx context.Context) ([]models.StudentInfo, error) {
	const query = `
SELECT st.id, st.first_name, st.last_name, c.name AS class_name
FROM students st
LEFT JOIN classes c ON c.id = st.class_id
ORDER BY st.last_name ASC, st.first_name ASC`
	var students []models.StudentInfo
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// StudentsForClass returns the minimal student projection of one class for
// grading pickers.
func (r *ProfileRepository) StudentsForClass(ctx context.Context, classID int64) ([]models.StudentOption, error) {
	const query = `
SELECT id, first_name || ' ' || last_name AS full_name
FROM students
WHERE class_id = $1
ORDER BY last_name ASC, first_name ASC`
	var students []models.StudentOption
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return students, nil
}
