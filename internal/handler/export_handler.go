package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/schoolmgr/school-api/internal/service"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
	"github.com/schoolmgr/school-api/pkg/response"
)

// ExportHandler exposes grade sheet downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// GradeSheet godoc
// @Summary Download one student's grade sheet
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /exports/grades/{id} [get]
func (h *ExportHandler) GradeSheet(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	file, err := h.service.GradeSheet(c.Request.Context(), studentID, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(200, file.ContentType, file.Content)
}
