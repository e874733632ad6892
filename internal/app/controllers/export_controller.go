package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/export"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportController streams xlsx roster downloads.
type ExportController struct {
	studentService   services.StudentService
	volunteerService services.VolunteerService
}

// NewExportController creates a new ExportController
func NewExportController(studentService services.StudentService, volunteerService services.VolunteerService) *ExportController {
	return &ExportController{
		studentService:   studentService,
		volunteerService: volunteerService,
	}
}

// ExportStudents streams the student roster as an xlsx workbook.
func (c *ExportController) ExportStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx, repositories.StudentFilter{})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	wb, err := export.StudentsWorkbook(students)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeWorkbook(ctx, wb, "eleves")
}

// ExportVolunteers streams the volunteer roster as an xlsx workbook.
func (c *ExportController) ExportVolunteers(ctx *gin.Context) {
	volunteers, err := c.volunteerService.GetAllVolunteers(ctx, repositories.VolunteerFilter{})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	wb, err := export.VolunteersWorkbook(volunteers)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeWorkbook(ctx, wb, "benevoles")
}

func writeWorkbook(ctx *gin.Context, wb *export.Workbook, name string) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Header("Content-Type", xlsxContentType)
	ctx.Status(http.StatusOK)
	if err := wb.WriteTo(ctx.Writer); err != nil {
		// Headers are gone already; log only.
		_ = ctx.Error(err)
	}
}
