package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgr/school-api/internal/models"
)

// gradeSortColumns maps exposed sort keys onto grade list expressions. The
// keys are shared by the student and teacher views.
var gradeSortColumns = map[string]string{
	"teacherName": "teacher_name",
	"studentName": "student_name",
	"className":   "class_name",
	"subjectName": "subject_name",
	"value":       "g.value",
	"date":        "g.date",
}

// GradeRepository manages recorded marks.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// Create inserts a grade and returns its id.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) (int64, error) {
	const query = `
INSERT INTO grades (student_id, subject_id, teacher_id, value, comment, date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		grade.StudentID, grade.SubjectID, grade.TeacherID, grade.Value, grade.Comment, grade.Date,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create grade: %w", err)
	}
	return id, nil
}

const gradeListSelect = `
SELECT t.last_name || ' ' || t.first_name AS teacher_name,
       st.last_name || ' ' || st.first_name AS student_name,
       COALESCE(c.name, 'No class available') AS class_name,
       s.name AS subject_name,
       g.value, COALESCE(g.comment, '') AS comment, g.date
FROM grades g
JOIN teachers t ON t.id = g.teacher_id
JOIN students st ON st.id = g.student_id
JOIN subjects s ON s.id = g.subject_id
LEFT JOIN classes c ON c.id = st.class_id`

const gradeListCount = `
SELECT COUNT(*)
FROM grades g
JOIN subjects s ON s.id = g.subject_id`

// ListForStudent returns one page of a student's grades with the total count.
// Search matches the subject name.
func (r *GradeRepository) ListForStudent(ctx context.Context, studentID int64, req models.PagedRequest) ([]models.GradeRow, int, error) {
	return r.listPaged(ctx, "g.student_id = $1", studentID, req)
}

// ListForTeacher returns one page of the grades a teacher recorded with the
// total count. Search matches the subject name.
func (r *GradeRepository) ListForTeacher(ctx context.Context, teacherID int64, req models.PagedRequest) ([]models.GradeRow, int, error) {
	return r.listPaged(ctx, "g.teacher_id = $1", teacherID, req)
}

func (r *GradeRepository) listPaged(ctx context.Context, ownerClause string, ownerID int64, req models.PagedRequest) ([]models.GradeRow, int, error) {
	order, err := orderBy(req, gradeSortColumns, "g.date ASC")
	if err != nil {
		return nil, 0, err
	}

	clauses := []string{ownerClause}
	args := []interface{}{ownerID}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		clauses = append(clauses, fmt.Sprintf("s.name ILIKE $%d", len(args)))
	}
	if req.DateFrom != nil {
		args = append(args, *req.DateFrom)
		clauses = append(clauses, fmt.Sprintf("g.date >= $%d", len(args)))
	}
	if req.DateTo != nil {
		args = append(args, *req.DateTo)
		clauses = append(clauses, fmt.Sprintf("g.date <= $%d", len(args)))
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, gradeListCount+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count grades: %w", err)
	}

	pageArgs := append(args, req.PageSize, req.Offset())
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		gradeListSelect, where, order, len(args)+1, len(args)+2)

	var rows []models.GradeRow
	if err := r.db.SelectContext(ctx, &rows, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list grades: %w", err)
	}
	return rows, total, nil
}

// ListAllForStudent returns every grade of a student ordered by date, for
// grade sheet exports.
func (r *GradeRepository) ListAllForStudent(ctx context.Context, studentID int64) ([]models.GradeRow, error) {
	query := gradeListSelect + " WHERE g.student_id = $1 ORDER BY g.date ASC"
	var rows []models.GradeRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student grades: %w", err)
	}
	return rows, nil
}
