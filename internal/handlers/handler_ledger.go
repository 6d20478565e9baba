package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// ledgerHandler handles HTTP requests related to ledger entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers ledger entry routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	ledger := rg.Group("/ledger-entries")
	{
		ledger.POST("", h.postManual)
		ledger.GET("/:ledger_entry_id", h.getLedgerEntry)
	}
}

func (h *ledgerHandler) postManual(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostManual", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.PostManual(c.Request.Context(), pharmacyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

func (h *ledgerHandler) getLedgerEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.ledgerService.GetLedgerEntryByID(c.Request.Context(), c.Param("pharmacy_id"), c.Param("ledger_entry_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}
