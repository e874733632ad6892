package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

// VolunteerController handles volunteer endpoints
type VolunteerController struct {
	volunteerService services.VolunteerService
}

// NewVolunteerController creates a new VolunteerController
func NewVolunteerController(volunteerService services.VolunteerService) *VolunteerController {
	return &VolunteerController{volunteerService: volunteerService}
}

func volunteerFromRequest(req dto.CreateVolunteerRequest) *models.Volunteer {
	return &models.Volunteer{
		LastName:           req.LastName,
		FirstName:          req.FirstName,
		Email:              req.Email,
		Phone:              req.Phone,
		Profession:         req.Profession,
		StreetNumber:       req.StreetNumber,
		StreetName:         req.StreetName,
		PostalCode:         req.PostalCode,
		City:               req.City,
		GeoZone:            req.GeoZone,
		Transport:          req.Transport,
		Status:             models.VolunteerStatus(req.Status),
		IsCoordinator:      req.IsCoordinator,
		PrimaryLevel:       req.PrimaryLevel,
		MiddleLevel:        req.MiddleLevel,
		HighLevel:          req.HighLevel,
		PhotoProvided:      req.PhotoProvided,
		ChatGroupAdded:     req.ChatGroupAdded,
		FileComplete:       req.FileComplete,
		OutlookAdded:       req.OutlookAdded,
		ExtranetAdded:      req.ExtranetAdded,
		WelcomeMeetingDone: req.WelcomeMeetingDone,
		BackgroundCheck:    req.BackgroundCheck,
		ContactOrigin:      req.ContactOrigin,
		ContactDate:        req.ContactDate,
		Availability:       req.Availability,
		Notes:              req.Notes,
		ExtraNotes:         req.ExtraNotes,
		CoManagerID:        req.CoManagerID,
	}
}

// CreateVolunteer registers a new volunteer.
func (c *VolunteerController) CreateVolunteer(ctx *gin.Context) {
	var req dto.CreateVolunteerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid volunteer data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	volunteer := volunteerFromRequest(req)
	if _, err := c.volunteerService.CreateVolunteer(ctx, volunteer, req.SubjectIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created, err := c.volunteerService.GetVolunteerByID(ctx, volunteer.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewVolunteerResponse(created)))
}

// GetVolunteerByID returns a single volunteer.
func (c *VolunteerController) GetVolunteerByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	volunteer, err := c.volunteerService.GetVolunteerByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewVolunteerResponse(volunteer)))
}

// GetAllVolunteers lists volunteers, optionally filtered by status.
func (c *VolunteerController) GetAllVolunteers(ctx *gin.Context) {
	filter := repositories.VolunteerFilter{
		Status: models.VolunteerStatus(ctx.Query("status")),
	}
	if v, ok := ctx.GetQuery("coordinator"); ok {
		coordinator := v == "true"
		filter.Coordinator = &coordinator
	}

	volunteers, err := c.volunteerService.GetAllVolunteers(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewVolunteerResponses(volunteers)))
}

// UpdateVolunteer overwrites a volunteer record.
func (c *VolunteerController) UpdateVolunteer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateVolunteerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid volunteer data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	volunteer := volunteerFromRequest(req)
	volunteer.ID = id
	if err := c.volunteerService.UpdateVolunteer(ctx, volunteer, req.SubjectIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.volunteerService.GetVolunteerByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewVolunteerResponse(updated)))
}

// ArchiveVolunteer flips the volunteer's status to archived.
func (c *VolunteerController) ArchiveVolunteer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.volunteerService.ArchiveVolunteer(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Volunteer archived"})
}

// DeleteVolunteer removes a volunteer entirely.
func (c *VolunteerController) DeleteVolunteer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.volunteerService.DeleteVolunteer(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Volunteer deleted"})
}

// GeocodeVolunteer resolves and stores the volunteer's coordinates.
func (c *VolunteerController) GeocodeVolunteer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	volunteer, err := c.volunteerService.GeocodeVolunteer(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewVolunteerResponse(volunteer)))
}
