package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

// SubjectController handles subject endpoints
type SubjectController struct {
	subjectService services.SubjectService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService services.SubjectService) *SubjectController {
	return &SubjectController{subjectService: subjectService}
}

// GetAllSubjects lists the subject reference table.
func (c *SubjectController) GetAllSubjects(ctx *gin.Context) {
	subjects, err := c.subjectService.GetAllSubjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewSubjectResponses(subjects)))
}

// CreateSubject adds a subject to the reference table.
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid subject data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	subject := &models.Subject{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		Active:    true,
	}
	if req.Active != nil {
		subject.Active = *req.Active
	}

	id, err := c.subjectService.CreateSubject(ctx, subject)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	subject.ID = id
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewSubjectResponse(subject)))
}

// UpdateSubject modifies a subject's name, ordering or visibility.
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid subject data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	subject := &models.Subject{
		ID:        id,
		Name:      req.Name,
		SortOrder: req.SortOrder,
		Active:    true,
	}
	if req.Active != nil {
		subject.Active = *req.Active
	}

	if err := c.subjectService.UpdateSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewSubjectResponse(subject)))
}

// DeleteSubject removes a subject from the reference table.
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.subjectService.DeleteSubject(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Subject deleted"})
}
