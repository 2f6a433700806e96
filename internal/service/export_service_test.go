package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type exportGradeStub struct {
	rows []models.GradeRow
}

func (s exportGradeStub) ListAllForStudent(ctx context.Context, studentID int64) ([]models.GradeRow, error) {
	return s.rows, nil
}

type exportProfileStub struct {
	students map[int64]*models.Profile
}

func (s exportProfileStub) StudentByID(ctx context.Context, id int64) (*models.Profile, error) {
	if p, ok := s.students[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func newExportServiceForTest(grades exportGradeStub, profiles exportProfileStub) *ExportService {
	return NewExportService(grades, profiles, zap.NewNop())
}

func TestExportServiceGradeSheetCSV(t *testing.T) {
	grades := exportGradeStub{rows: []models.GradeRow{
		{SubjectName: "Mathematics", Value: 5, Comment: "good", TeacherName: "Kowalska Anna", Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}}
	profiles := exportProfileStub{students: map[int64]*models.Profile{9: {ID: 9, FirstName: "Jan", LastName: "Nowak"}}}
	svc := newExportServiceForTest(grades, profiles)

	file, err := svc.GradeSheet(context.Background(), 9, "csv")
	require.NoError(t, err)
	assert.Equal(t, "grades_Jan_Nowak.csv", file.FileName)
	assert.Equal(t, "text/csv", file.ContentType)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "Subject,Value,Comment,Teacher,Date"))
	assert.Contains(t, content, "Mathematics,5,good,Kowalska Anna,2026-03-15")
}

func TestExportServiceGradeSheetPDF(t *testing.T) {
	profiles := exportProfileStub{students: map[int64]*models.Profile{9: {ID: 9, FirstName: "Jan", LastName: "Nowak"}}}
	svc := newExportServiceForTest(exportGradeStub{}, profiles)

	file, err := svc.GradeSheet(context.Background(), 9, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "grades_Jan_Nowak.pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestExportServiceGradeSheetUnknownFormat(t *testing.T) {
	profiles := exportProfileStub{students: map[int64]*models.Profile{9: {ID: 9}}}
	svc := newExportServiceForTest(exportGradeStub{}, profiles)

	_, err := svc.GradeSheet(context.Background(), 9, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceGradeSheetUnknownStudent(t *testing.T) {
	svc := newExportServiceForTest(exportGradeStub{}, exportProfileStub{})

	_, err := svc.GradeSheet(context.Background(), 404, "csv")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
