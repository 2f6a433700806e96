package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/internal/service"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
	"github.com/schoolmgr/school-api/pkg/response"
)

// GradeHandler exposes the grading workflow endpoints.
type GradeHandler struct {
	service *service.GradeService
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// Add godoc
// @Summary Record a mark for a student
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body models.AddGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /grades [post]
func (h *GradeHandler) Add(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AddGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	created, err := h.service.Add(c.Request.Context(), claims.AccountID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// MyGrades godoc
// @Summary List the calling student's grades
// @Tags Grades
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Param sortColumn query string false "Sort column"
// @Param sortDirection query string false "Sort direction"
// @Param search query string false "Subject name filter"
// @Param dateFrom query string false "Date lower bound (YYYY-MM-DD)"
// @Param dateTo query string false "Date upper bound (YYYY-MM-DD)"
// @Success 200 {object} response.PagedEnvelope
// @Security BearerAuth
// @Router /grades/my [get]
func (h *GradeHandler) MyGrades(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rows, total, err := h.service.ListForStudent(c.Request.Context(), claims.AccountID, pagedRequestFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, total, rows)
}

// TeacherGrades godoc
// @Summary List the grades the calling teacher recorded
// @Tags Grades
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Param sortColumn query string false "Sort column"
// @Param sortDirection query string false "Sort direction"
// @Param search query string false "Subject name filter"
// @Param dateFrom query string false "Date lower bound (YYYY-MM-DD)"
// @Param dateTo query string false "Date upper bound (YYYY-MM-DD)"
// @Success 200 {object} response.PagedEnvelope
// @Security BearerAuth
// @Router /grades/teacher [get]
func (h *GradeHandler) TeacherGrades(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rows, total, err := h.service.ListForTeacher(c.Request.Context(), claims.AccountID, pagedRequestFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, total, rows)
}

// Subjects godoc
// @Summary List the (subject, class) pairs the calling teacher may grade
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /grades/subjects [get]
func (h *GradeHandler) Subjects(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	pairs, err := h.service.SubjectsForTeacher(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pairs)
}

// Students godoc
// @Summary List the students of a class for a subject the caller teaches
// @Tags Grades
// @Produce json
// @Param subjectId query int true "Subject ID"
// @Param classId query int true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /grades/students [get]
func (h *GradeHandler) Students(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	subjectID, err := strconv.ParseInt(c.Query("subjectId"), 10, 64)
	if err != nil || subjectID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid subject id"))
		return
	}
	classID, err := strconv.ParseInt(c.Query("classId"), 10, 64)
	if err != nil || classID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class id"))
		return
	}

	students, err := h.service.StudentsForSubjectAndClass(c.Request.Context(), claims.AccountID, subjectID, classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}
