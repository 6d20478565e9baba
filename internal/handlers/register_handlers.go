package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
	"github.com/pharbooks/pharma_books_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.RequireUserID())

	registerPharmacyRoutes(v1, services.Pharmacy)

	pharmacy := v1.Group("/pharmacies/:pharmacy_id")
	registerAccountRoutes(pharmacy, services.Account)
	registerBankAccountRoutes(pharmacy, services.BankAccount)
	registerImportRoutes(pharmacy, services.Importer)
	registerRuleRoutes(pharmacy, services.Rule)
	registerTransactionRoutes(pharmacy, services.Rule, services.Ledger, services.Suggestion)
	registerLedgerRoutes(pharmacy, services.Ledger)
}

// respondWithError maps service errors onto HTTP status codes consistently
// across handlers.
func respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConfiguration):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &appErr):
		logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	default:
		logger.Error("Unexpected error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requestIdentity pulls the pharmacy scope and acting user for a request.
// Writes the error response itself when the user is missing.
func requestIdentity(c *gin.Context) (pharmacyID, userID string, ok bool) {
	pharmacyID = c.Param("pharmacy_id")
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return pharmacyID, userID, ok
}
