package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgr/school-api/internal/models"
)

// ClassSubjectRepository reads the class-subject-teacher assignment triples
// that drive grading and attendance authorization.
type ClassSubjectRepository struct {
	db *sqlx.DB
}

// NewClassSubjectRepository creates a new repository.
func NewClassSubjectRepository(db *sqlx.DB) *ClassSubjectRepository {
	return &ClassSubjectRepository{db: db}
}

// AssignmentExists reports whether the exact (teacher, subject, class) triple
// is assigned.
func (r *ClassSubjectRepository) AssignmentExists(ctx context.Context, teacherID, subjectID, classID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM class_subjects WHERE teacher_id = $1 AND subject_id = $2 AND class_id = $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teacherID, subjectID, classID); err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return exists, nil
}

// ListForTeacher returns the distinct (subject, class) pairs a teacher is
// assigned to, ordered by subject name.
func (r *ClassSubjectRepository) ListForTeacher(ctx context.Context, teacherID int64) ([]models.SubjectWithClass, error) {
	const query = `
SELECT DISTINCT cs.subject_id, s.name AS subject_name, cs.class_id, c.name AS class_name
FROM class_subjects cs
JOIN subjects s ON s.id = cs.subject_id
JOIN classes c ON c.id = cs.class_id
WHERE cs.teacher_id = $1
ORDER BY subject_name ASC`
	var pairs []models.SubjectWithClass
	if err := r.db.SelectContext(ctx, &pairs, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return pairs, nil
}

// ListForClass returns the joined assignment rows of one class, ordered by
// subject name. Callers group them per subject.
func (r *ClassSubjectRepository) ListForClass(ctx context.Context, classID int64) ([]models.AssignmentRow, error) {
	const query = `
SELECT cs.subject_id, s.name AS subject_name, cs.class_id, c.name AS class_name,
       cs.teacher_id, t.first_name AS teacher_first_name, t.last_name AS teacher_last_name
FROM class_subjects cs
JOIN subjects s ON s.id = cs.subject_id
JOIN classes c ON c.id = cs.class_id
JOIN teachers t ON t.id = cs.teacher_id
WHERE cs.class_id = $1
ORDER BY subject_name ASC, cs.teacher_id ASC`
	var rows []models.AssignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("list class assignments: %w", err)
	}
	return rows, nil
}
