package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

// StudentController handles student endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func studentFromRequest(req dto.CreateStudentRequest) *models.Student {
	return &models.Student{
		LastName:          req.LastName,
		FirstName:         req.FirstName,
		Phone:             req.Phone,
		ParentLastName:    req.ParentLastName,
		ParentFirstName:   req.ParentFirstName,
		ParentPhone:       req.ParentPhone,
		ParentEmail:       req.ParentEmail,
		GradeLevel:        req.GradeLevel,
		School:            req.School,
		StreetNumber:      req.StreetNumber,
		StreetName:        req.StreetName,
		AddressComplement: req.AddressComplement,
		PostalCode:        req.PostalCode,
		City:              req.City,
		Status:            models.StudentStatus(req.Status),
		EntryStatus:       models.EntryStatus(req.EntryStatus),
		Notes:             req.Notes,
		CoManagerID:       req.CoManagerID,
	}
}

// CreateStudent registers a new student.
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student := studentFromRequest(req)
	if _, err := c.studentService.CreateStudent(ctx, student, req.SubjectIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created, err := c.studentService.GetStudentByID(ctx, student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewStudentResponse(created)))
}

// GetStudentByID returns a single student.
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewStudentResponse(student)))
}

// GetAllStudents lists students, optionally filtered by status or district.
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	filter := repositories.StudentFilter{
		Status:   models.StudentStatus(ctx.Query("status")),
		District: ctx.Query("district"),
	}

	students, err := c.studentService.GetAllStudents(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewStudentResponses(students)))
}

// UpdateStudent overwrites a student record.
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student := studentFromRequest(req)
	student.ID = id
	if err := c.studentService.UpdateStudent(ctx, student, req.SubjectIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewStudentResponse(updated)))
}

// ArchiveStudent flips the student's status to archived.
func (c *StudentController) ArchiveStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.studentService.ArchiveStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student archived"})
}

// DeleteStudent removes a student entirely.
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student deleted"})
}

// GeocodeStudent resolves and stores the student's coordinates.
func (c *StudentController) GeocodeStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GeocodeStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewStudentResponse(student)))
}
