package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// pharmacyHandler handles HTTP requests related to pharmacy tenants.
type pharmacyHandler struct {
	pharmacyService portssvc.PharmacySvcFacade
}

// registerPharmacyRoutes registers routes related to pharmacies.
func registerPharmacyRoutes(rg *gin.RouterGroup, pharmacyService portssvc.PharmacySvcFacade) {
	h := &pharmacyHandler{pharmacyService: pharmacyService}

	rg.POST("/pharmacies", h.createPharmacy)
	rg.GET("/pharmacies/:pharmacy_id", h.getPharmacy)
}

func (h *pharmacyHandler) createPharmacy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePharmacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePharmacy", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pharmacy, err := h.pharmacyService.CreatePharmacy(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPharmacyResponse(pharmacy))
}

func (h *pharmacyHandler) getPharmacy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacy, err := h.pharmacyService.GetPharmacy(c.Request.Context(), c.Param("pharmacy_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPharmacyResponse(pharmacy))
}
