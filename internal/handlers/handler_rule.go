package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// ruleHandler handles HTTP requests related to classification rules.
type ruleHandler struct {
	ruleService portssvc.RuleSvcFacade
}

// registerRuleRoutes registers rule management and batch application routes.
func registerRuleRoutes(rg *gin.RouterGroup, ruleService portssvc.RuleSvcFacade) {
	h := &ruleHandler{ruleService: ruleService}

	rules := rg.Group("/rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.GET("/:rule_id", h.getRule)
		rules.PUT("/:rule_id", h.updateRule)
		rules.DELETE("/:rule_id", h.deactivateRule)
	}

	rg.POST("/batches/:batch_id/apply-rules", h.applyRulesToBatch)
}

func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), pharmacyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRuleResponse(rule))
}

func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.Query("active") == "true"
	rules, err := h.ruleService.ListRules(c.Request.Context(), c.Param("pharmacy_id"), activeOnly)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	out := make([]dto.RuleResponse, len(rules))
	for i := range rules {
		out[i] = dto.ToRuleResponse(&rules[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *ruleHandler) getRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rule, err := h.ruleService.GetRuleByID(c.Request.Context(), c.Param("pharmacy_id"), c.Param("rule_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

func (h *ruleHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), pharmacyID, c.Param("rule_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

func (h *ruleHandler) deactivateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	if err := h.ruleService.DeactivateRule(c.Request.Context(), pharmacyID, c.Param("rule_id"), userID); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ruleHandler) applyRulesToBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	result, err := h.ruleService.ApplyToBatch(c.Request.Context(), pharmacyID, c.Param("batch_id"), userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
