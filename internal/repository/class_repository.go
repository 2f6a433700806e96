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

// ClassRepository manages persistence for classes and their student
// membership.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

var classSortColumns = map[string]string{
	"name":      "c.name",
	"createdAt": "c.created_at",
	"updatedAt": "c.updated_at",
}

// List returns the paged class projection with homeroom teacher names and
// member counts.
func (r *ClassRepository) List(ctx context.Context, req models.PagedRequest) ([]models.ClassRow, int, error) {
	req.Normalize()

	order, err := orderBy(req, classSortColumns, "c.created_at DESC")
	if err != nil {
		return nil, 0, err
	}

	const base = `FROM classes c LEFT JOIN teachers t ON t.id = c.homeroom_teacher_id`

	query := fmt.Sprintf(`SELECT c.id, c.name, c.created_at, c.updated_at,
        t.first_name || ' ' || t.last_name AS homeroom_teacher_name,
        (SELECT COUNT(*) FROM students s WHERE s.class_id = c.id) AS student_count
        %s ORDER BY %s LIMIT %d OFFSET %d`, base, order, req.PageSize, req.Offset())

	var rows []models.ClassRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return rows, total, nil
}

// Options returns all classes as id/name pairs ordered by name.
func (r *ClassRepository) Options(ctx context.Context) ([]models.ClassOption, error) {
	const query = `SELECT id, name FROM classes ORDER BY name ASC`
	var options []models.ClassOption
	if err := r.db.SelectContext(ctx, &options, query); err != nil {
		return nil, fmt.Errorf("list class options: %w", err)
	}
	return options, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	const query = `SELECT id, name, homeroom_teacher_id, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindDetailByID returns a class with the ids of its member students.
func (r *ClassRepository) FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	class, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	memberIDs, err := r.memberIDs(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return &models.ClassDetail{Class: *class, AssignedStudentIDs: memberIDs}, nil
}

type queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func (r *ClassRepository) memberIDs(ctx context.Context, q queryer, classID int64) ([]int64, error) {
	var ids []int64
	if err := q.SelectContext(ctx, &ids, `SELECT id FROM students WHERE class_id = $1 ORDER BY id`, classID); err != nil {
		return nil, fmt.Errorf("list class members: %w", err)
	}
	return ids, nil
}

// CreateWithStudents inserts the class and assigns the matching students to
// it in one transaction. Unmatched ids are ignored unless none match.
func (r *ClassRepository) CreateWithStudents(ctx context.Context, class *models.Class, studentIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create class: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO classes (name, homeroom_teacher_id, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		class.Name, class.HomeroomTeacherID, class.CreatedAt, class.UpdatedAt,
	).Scan(&class.ID); err != nil {
		return fmt.Errorf("insert class: %w", err)
	}

	if len(studentIDs) > 0 {
		res, execErr := tx.ExecContext(ctx, `UPDATE students SET class_id = $1 WHERE id = ANY($2)`, class.ID, pq.Array(studentIDs))
		if execErr != nil {
			err = fmt.Errorf("assign students: %w", execErr)
			return err
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			err = ErrNoStudentsMatched
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create class: %w", err)
	}
	return nil
}

// DeleteWithDetach detaches every member student before removing the class
// row, all in one transaction. Returns sql.ErrNoRows when the class does not
// exist.
func (r *ClassRepository) DeleteWithDetach(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete class: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE students SET class_id = NULL WHERE class_id = $1`, id); err != nil {
		return fmt.Errorf("detach class members: %w", err)
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if execErr != nil {
		err = fmt.Errorf("delete class: %w", execErr)
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete class: %w", err)
	}
	return nil
}

// UpdateWithMembership updates the class row and reconciles membership
// against the target set: current members missing from the target are
// detached, target students not currently members are attached, and students
// in both sets are not written at all.
func (r *ClassRepository) UpdateWithMembership(ctx context.Context, class *models.Class, targetStudentIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update class: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	class.UpdatedAt = time.Now().UTC()
	res, execErr := tx.ExecContext(ctx,
		`UPDATE classes SET name = $2, homeroom_teacher_id = $3, updated_at = $4 WHERE id = $1`,
		class.ID, class.Name, class.HomeroomTeacherID, class.UpdatedAt)
	if execErr != nil {
		err = fmt.Errorf("update class: %w", execErr)
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	current, memberErr := r.memberIDs(ctx, tx, class.ID)
	if memberErr != nil {
		err = memberErr
		return err
	}

	toDetach, toAttach := diffMembership(current, targetStudentIDs)

	if len(toDetach) > 0 {
		if _, err = tx.ExecContext(ctx,
			`UPDATE students SET class_id = NULL WHERE id = ANY($1) AND class_id = $2`,
			pq.Array(toDetach), class.ID); err != nil {
			return fmt.Errorf("detach students: %w", err)
		}
	}
	if len(toAttach) > 0 {
		if _, err = tx.ExecContext(ctx,
			`UPDATE students SET class_id = $2 WHERE id = ANY($1)`,
			pq.Array(toAttach), class.ID); err != nil {
			return fmt.Errorf("attach students: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update class: %w", err)
	}
	return nil
}

// diffMembership computes the set difference between current and target
// membership. Members of both sets appear in neither result.
func diffMembership(current, target []int64) (toDetach, toAttach []int64) {
	currentSet := make(map[int64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	targetSet := make(map[int64]struct{}, len(target))
	for _, id := range target {
		targetSet[id] = struct{}{}
	}

	for _, id := range current {
		if _, ok := targetSet[id]; !ok {
			toDetach = append(toDetach, id)
		}
	}
	for _, id := range target {
		if _, ok := currentSet[id]; !ok {
			toAttach = append(toAttach, id)
		}
	}
	return toDetach, toAttach
}
