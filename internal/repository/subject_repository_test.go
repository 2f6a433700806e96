package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmgr/school-api/internal/models"
)

func newSubjectMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubjectRepositoryList(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at, updated_at FROM subjects ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(int64(3), "Mathematics", time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subjects")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_subjects cs")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "subject_name", "class_id", "class_name", "teacher_id", "teacher_first_name", "teacher_last_name"}).
			AddRow(int64(3), "Mathematics", int64(1), "1A", int64(2), "Anna", "Kowalska"))

	subjects, total, err := repo.List(context.Background(), models.PagedRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, subjects, 1)
	assert.Equal(t, []string{"1A (Anna Kowalska)"}, subjects[0].Assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListEmptyAssignments(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(int64(4), "Physics", time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subjects")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_subjects cs")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "subject_name", "class_id", "class_name", "teacher_id", "teacher_first_name", "teacher_last_name"}))

	subjects, _, err := repo.List(context.Background(), models.PagedRequest{})
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.NotNil(t, subjects[0].Assignments)
	assert.Empty(t, subjects[0].Assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListRejectsUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	_, _, err := repo.List(context.Background(), models.PagedRequest{SortColumn: "assignments"})
	assert.ErrorIs(t, err, ErrInvalidSortColumn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryCreateWithAssignments(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO subjects").
		WithArgs("Chemistry", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))
	mock.ExpectExec("INSERT INTO class_subjects").
		WithArgs(int64(6), int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO class_subjects").
		WithArgs(int64(6), int64(3), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	subject := &models.Subject{Name: "Chemistry"}
	err := repo.CreateWithAssignments(context.Background(), subject, []models.AssignmentRef{
		{ClassID: 1, TeacherID: 2},
		{ClassID: 3, TeacherID: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), subject.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryUpdateReplacesAssignmentSet(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE subjects SET name").
		WithArgs(int64(6), "Chemistry II", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_subjects WHERE subject_id = $1")).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO class_subjects").
		WithArgs(int64(6), int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateWithAssignments(context.Background(), &models.Subject{ID: 6, Name: "Chemistry II"}, []models.AssignmentRef{
		{ClassID: 1, TeacherID: 5},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryUpdateMissingSubject(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE subjects SET name").
		WithArgs(int64(404), "Ghost", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateWithAssignments(context.Background(), &models.Subject{ID: 404, Name: "Ghost"}, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryDeleteWithAssignments(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_subjects WHERE subject_id = $1")).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM subjects").
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteWithAssignments(context.Background(), 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryFindDetailByID(t *testing.T) {
	db, mock, cleanup := newSubjectMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at, updated_at FROM subjects WHERE id = $1")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(int64(6), "Chemistry", time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT class_id, teacher_id FROM class_subjects WHERE subject_id = $1 ORDER BY class_id")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"class_id", "teacher_id"}).AddRow(int64(1), int64(2)))

	detail, err := repo.FindDetailByID(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", detail.Name)
	assert.Equal(t, []models.AssignmentRef{{ClassID: 1, TeacherID: 2}}, detail.Assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
