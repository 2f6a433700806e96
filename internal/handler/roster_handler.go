package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolmgr/school-api/internal/service"
	"github.com/schoolmgr/school-api/pkg/response"
)

// RosterHandler exposes the flat teacher and student listings.
type RosterHandler struct {
	service *service.RosterService
}

// NewRosterHandler constructs a roster handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// Teachers godoc
// @Summary List teachers
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers [get]
func (h *RosterHandler) Teachers(c *gin.Context) {
	teachers, err := h.service.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers)
}

// Students godoc
// @Summary List students with their class names
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students [get]
func (h *RosterHandler) Students(c *gin.Context) {
	students, err := h.service.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}
