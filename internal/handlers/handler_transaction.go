package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// transactionHandler handles classification actions on single transactions.
type transactionHandler struct {
	ruleService       portssvc.RuleSvcFacade
	ledgerService     portssvc.LedgerSvcFacade
	suggestionService portssvc.SuggestionSvcFacade
}

// registerTransactionRoutes registers per-transaction classification routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ruleService portssvc.RuleSvcFacade, ledgerService portssvc.LedgerSvcFacade, suggestionService portssvc.SuggestionSvcFacade) {
	h := &transactionHandler{
		ruleService:       ruleService,
		ledgerService:     ledgerService,
		suggestionService: suggestionService,
	}

	txns := rg.Group("/transactions/:transaction_id")
	{
		txns.POST("/apply-rules", h.applyRules)
		txns.POST("/classify", h.classifyManually)
		txns.POST("/suggest", h.suggest)
		txns.POST("/accept", h.acceptSuggestion)
		txns.POST("/reject", h.rejectSuggestion)
	}
}

func (h *transactionHandler) applyRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	ruleID, err := h.ruleService.ApplyToTransaction(c.Request.Context(), pharmacyID, c.Param("transaction_id"), userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matchedRuleID": ruleID})
}

func (h *transactionHandler) classifyManually(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ManualClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ClassifyManually", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.ClassifyManually(c.Request.Context(), pharmacyID, c.Param("transaction_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

func (h *transactionHandler) suggest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	suggestion, err := h.suggestionService.SuggestForTransaction(c.Request.Context(), pharmacyID, c.Param("transaction_id"), userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	if suggestion == nil {
		c.JSON(http.StatusOK, gin.H{"suggestion": nil})
		return
	}
	c.JSON(http.StatusCreated, dto.ToSuggestionResponse(suggestion))
}

func (h *transactionHandler) acceptSuggestion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	entry, err := h.suggestionService.AcceptSuggestion(c.Request.Context(), pharmacyID, c.Param("transaction_id"), userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

func (h *transactionHandler) rejectSuggestion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	if err := h.suggestionService.RejectSuggestion(c.Request.Context(), pharmacyID, c.Param("transaction_id"), userID); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
