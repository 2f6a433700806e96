package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmgr/school-api/internal/models"
)

func newClassSubjectMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassSubjectRepositoryAssignmentExists(t *testing.T) {
	db, mock, cleanup := newClassSubjectMock(t)
	defer cleanup()
	repo := NewClassSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE teacher_id = $1 AND subject_id = $2 AND class_id = $3")).
		WithArgs(int64(3), int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.AssignmentExists(context.Background(), 3, 2, 1)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSubjectRepositoryListForTeacher(t *testing.T) {
	db, mock, cleanup := newClassSubjectMock(t)
	defer cleanup()
	repo := NewClassSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cs.teacher_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "subject_name", "class_id", "class_name"}).
			AddRow(int64(2), "Mathematics", int64(1), "1A").
			AddRow(int64(2), "Mathematics", int64(4), "2B"))

	pairs, err := repo.ListForTeacher(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, models.SubjectWithClass{SubjectID: 2, SubjectName: "Mathematics", ClassID: 1, ClassName: "1A"}, pairs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
