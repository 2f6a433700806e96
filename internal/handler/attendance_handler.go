package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/internal/service"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
	"github.com/schoolmgr/school-api/pkg/response"
)

// AttendanceHandler exposes the daily attendance endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// TodayLessons godoc
// @Summary List the calling teacher's lessons for today
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/today [get]
func (h *AttendanceHandler) TodayLessons(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	lessons, err := h.service.TodayLessons(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons)
}

// Students godoc
// @Summary List a lesson's students with their status for a date
// @Tags Attendance
// @Produce json
// @Param scheduleId path int true "Schedule entry ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/{scheduleId}/students [get]
func (h *AttendanceHandler) Students(c *gin.Context) {
	scheduleID, ok := pathID(c, "scheduleId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}

	students, err := h.service.StudentsForSchedule(c.Request.Context(), scheduleID, dateFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Save godoc
// @Summary Save a lesson's attendance for one date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param scheduleId path int true "Schedule entry ID"
// @Param payload body models.SaveAttendanceRequest true "Attendance payload"
// @Success 204
// @Security BearerAuth
// @Router /attendance/{scheduleId} [post]
func (h *AttendanceHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	scheduleID, ok := pathID(c, "scheduleId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}

	var req models.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.Save(c.Request.Context(), claims.AccountID, scheduleID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
