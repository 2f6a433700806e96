package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/schoolmgr/school-api/internal/models"
)

// SubjectRepository manages subjects and their class-teacher assignment sets.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

var subjectSortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// List returns the paged subject projection. Assignment labels are resolved
// for the returned page only.
func (r *SubjectRepository) List(ctx context.Context, req models.PagedRequest) ([]models.SubjectRow, int, error) {
	req.Normalize()

	order, err := orderBy(req, subjectSortColumns, "created_at DESC")
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM subjects ORDER BY %s LIMIT %d OFFSET %d`,
		order, req.PageSize, req.Offset())

	var rows []models.SubjectRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM subjects`); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	if len(rows) > 0 {
		ids := make([]int64, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		labels, err := r.assignmentLabels(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range rows {
			if l, ok := labels[rows[i].ID]; ok {
				rows[i].Assignments = l
			} else {
				rows[i].Assignments = []string{}
			}
		}
	}

	return rows, total, nil
}

// assignmentLabels renders "Class (Teacher Name)" labels per subject id.
func (r *SubjectRepository) assignmentLabels(ctx context.Context, subjectIDs []int64) (map[int64][]string, error) {
	const query = `
SELECT cs.subject_id, s.name AS subject_name, cs.class_id, c.name AS class_name,
       cs.teacher_id, t.first_name AS teacher_first_name, t.last_name AS teacher_last_name
FROM class_subjects cs
JOIN subjects s ON s.id = cs.subject_id
JOIN classes c ON c.id = cs.class_id
JOIN teachers t ON t.id = cs.teacher_id
WHERE cs.subject_id = ANY($1)
ORDER BY c.name ASC`
	var rows []models.AssignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(subjectIDs)); err != nil {
		return nil, fmt.Errorf("list subject assignments: %w", err)
	}
	labels := make(map[int64][]string, len(subjectIDs))
	for _, row := range rows {
		label := fmt.Sprintf("%s (%s %s)", row.ClassName, row.TeacherFirstName, row.TeacherLastName)
		labels[row.SubjectID] = append(labels[row.SubjectID], label)
	}
	return labels, nil
}

// Options returns all subjects as id/name pairs ordered by name.
func (r *SubjectRepository) Options(ctx context.Context) ([]models.SubjectOption, error) {
	const query = `SELECT id, name FROM subjects ORDER BY name ASC`
	var options []models.SubjectOption
	if err := r.db.SelectContext(ctx, &options, query); err != nil {
		return nil, fmt.Errorf("list subject options: %w", err)
	}
	return options, nil
}

// FindByID returns a subject row by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	const query = `SELECT id, name, created_at, updated_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindDetailByID returns the subject with its assignment references.
func (r *SubjectRepository) FindDetailByID(ctx context.Context, id int64) (*models.SubjectDetail, error) {
	subject, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var refs []models.AssignmentRef
	const query = `SELECT class_id, teacher_id FROM class_subjects WHERE subject_id = $1 ORDER BY class_id`
	if err := r.db.SelectContext(ctx, &refs, query, id); err != nil {
		return nil, fmt.Errorf("list assignment refs: %w", err)
	}
	if refs == nil {
		refs = []models.AssignmentRef{}
	}
	return &models.SubjectDetail{ID: subject.ID, Name: subject.Name, Assignments: refs}, nil
}

// CreateWithAssignments inserts the subject and its assignment rows in one
// transaction.
func (r *SubjectRepository) CreateWithAssignments(ctx context.Context, subject *models.Subject, refs []models.AssignmentRef) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create subject: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now

	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO subjects (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		subject.Name, subject.CreatedAt, subject.UpdatedAt,
	).Scan(&subject.ID); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}

	if err = insertAssignments(ctx, tx, subject.ID, refs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create subject: %w", err)
	}
	return nil
}

// UpdateWithAssignments updates the subject row and replaces its entire
// assignment set: all existing rows are deleted and the supplied set inserted,
// even when the new set overlaps the old.
func (r *SubjectRepository) UpdateWithAssignments(ctx context.Context, subject *models.Subject, refs []models.AssignmentRef) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update subject: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	subject.UpdatedAt = time.Now().UTC()
	res, execErr := tx.ExecContext(ctx,
		`UPDATE subjects SET name = $2, updated_at = $3 WHERE id = $1`,
		subject.ID, subject.Name, subject.UpdatedAt)
	if execErr != nil {
		err = fmt.Errorf("update subject: %w", execErr)
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM class_subjects WHERE subject_id = $1`, subject.ID); err != nil {
		return fmt.Errorf("clear subject assignments: %w", err)
	}

	if err = insertAssignments(ctx, tx, subject.ID, refs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update subject: %w", err)
	}
	return nil
}

func insertAssignments(ctx context.Context, tx *sqlx.Tx, subjectID int64, refs []models.AssignmentRef) error {
	for _, ref := range refs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO class_subjects (subject_id, class_id, teacher_id) VALUES ($1, $2, $3)`,
			subjectID, ref.ClassID, ref.TeacherID); err != nil {
			return fmt.Errorf("insert subject assignment: %w", err)
		}
	}
	return nil
}

// DeleteWithAssignments removes the subject's assignment rows, then the
// subject, in one transaction. Returns sql.ErrNoRows when the subject does
// not exist.
func (r *SubjectRepository) DeleteWithAssignments(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete subject: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM class_subjects WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("clear subject assignments: %w", err)
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if execErr != nil {
		err = fmt.Errorf("delete subject: %w", execErr)
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete subject: %w", err)
	}
	return nil
}
