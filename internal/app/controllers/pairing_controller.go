package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/importer"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

// PairingController handles pairing lifecycle endpoints
type PairingController struct {
	pairingService services.PairingService
}

// NewPairingController creates a new PairingController
func NewPairingController(pairingService services.PairingService) *PairingController {
	return &PairingController{pairingService: pairingService}
}

// ActivatePairing links a student and a volunteer into an active pairing.
func (c *PairingController) ActivatePairing(ctx *gin.Context) {
	var req dto.CreatePairingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid pairing data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	startDate := time.Now()
	if d := importer.ParseDate(req.StartDate); d != nil {
		startDate = *d
	}

	pairing, err := c.pairingService.ActivatePairing(ctx, req.StudentID, req.VolunteerID, startDate, req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewPairingResponse(pairing)))
}

// GetAllPairings lists pairings; ?active=true narrows to active ones.
func (c *PairingController) GetAllPairings(ctx *gin.Context) {
	activeOnly := ctx.Query("active") == "true"

	pairings, err := c.pairingService.GetAllPairings(ctx, activeOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewPairingResponses(pairings)))
}

// GetPairingByID returns a single pairing.
func (c *PairingController) GetPairingByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	pairing, err := c.pairingService.GetPairingByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewPairingResponse(pairing)))
}

// EndPairing closes an active pairing, keeping its history.
func (c *PairingController) EndPairing(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.EndPairingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid pairing data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	endDate := time.Now()
	if d := importer.ParseDate(req.EndDate); d != nil {
		endDate = *d
	}

	if err := c.pairingService.EndPairing(ctx, id, endDate); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Pairing ended"})
}

// DeletePairing removes a pairing row entirely.
func (c *PairingController) DeletePairing(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.pairingService.DeletePairing(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Pairing deleted"})
}
