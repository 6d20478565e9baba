package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// bankAccountHandler handles HTTP requests related to bank accounts.
type bankAccountHandler struct {
	bankAccountService portssvc.BankAccountSvcFacade
}

// registerBankAccountRoutes registers routes related to bank accounts.
func registerBankAccountRoutes(rg *gin.RouterGroup, bankAccountService portssvc.BankAccountSvcFacade) {
	h := &bankAccountHandler{bankAccountService: bankAccountService}

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:bank_account_id", h.getBankAccount)
	}
}

func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), pharmacyID, req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.bankAccountService.ListBankAccounts(c.Request.Context(), c.Param("pharmacy_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	out := make([]dto.BankAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = dto.ToBankAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.bankAccountService.GetBankAccount(c.Request.Context(), c.Param("pharmacy_id"), c.Param("bank_account_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}
