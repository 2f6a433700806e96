package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/internal/service"
	"github.com/schoolmgr/school-api/pkg/response"
)

type classRepoMock struct {
	rows      []models.ClassRow
	total     int
	detail    *models.ClassDetail
	createErr error
	updateErr error
	deleteErr error

	lastReq    models.PagedRequest
	listCalled bool
}

func (m *classRepoMock) List(ctx context.Context, req models.PagedRequest) ([]models.ClassRow, int, error) {
	m.listCalled = true
	m.lastReq = req
	return m.rows, m.total, nil
}

func (m *classRepoMock) Options(ctx context.Context) ([]models.ClassOption, error) {
	return []models.ClassOption{{ID: 1, Name: "1A"}}, nil
}

func (m *classRepoMock) FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	if m.detail == nil {
		return nil, sql.ErrNoRows
	}
	return m.detail, nil
}

func (m *classRepoMock) CreateWithStudents(ctx context.Context, class *models.Class, studentIDs []int64) error {
	if m.createErr == nil {
		class.ID = 7
	}
	return m.createErr
}

func (m *classRepoMock) UpdateWithMembership(ctx context.Context, class *models.Class, targetStudentIDs []int64) error {
	return m.updateErr
}

func (m *classRepoMock) DeleteWithDetach(ctx context.Context, id int64) error {
	return m.deleteErr
}

func newClassHandlerForTest(repo *classRepoMock) *ClassHandler {
	return NewClassHandler(service.NewClassService(repo, nil, zap.NewNop()))
}

func TestClassHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &classRepoMock{rows: []models.ClassRow{{ID: 1, Name: "1A"}}, total: 1}
	handler := newClassHandlerForTest(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classes?page=2&pageSize=5&sortColumn=name&sortDirection=desc", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.listCalled)
	assert.Equal(t, 2, repo.lastReq.Page)
	assert.Equal(t, 5, repo.lastReq.PageSize)
	assert.Equal(t, "name", repo.lastReq.SortColumn)

	var envelope response.PagedEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.TotalRecords)
}

func TestClassHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandlerForTest(&classRepoMock{})

	payload, _ := json.Marshal(models.ClassRequest{Name: "1A", StudentIDs: []int64{10, 11}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/classes", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestClassHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandlerForTest(&classRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/classes", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandlerForTest(&classRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classes/404", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassHandlerGetRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandlerForTest(&classRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classes/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerUpdateNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandlerForTest(&classRepoMock{})

	payload, _ := json.Marshal(models.ClassRequest{Name: "1A", StudentIDs: []int64{2, 4}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/classes/5", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.Update(c)
	// The engine flushes the deferred status after the handler chain; calling
	// the handler directly skips that, so flush before reading the recorder.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestClassHandlerDeleteNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newClassHandlerForTest(&classRepoMock{deleteErr: sql.ErrNoRows})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/classes/404", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "404"}}

	handler.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
