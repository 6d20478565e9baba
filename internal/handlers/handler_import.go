package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// maxStatementBytes caps uploaded statement size at 10 MiB.
const maxStatementBytes = 10 << 20

// importHandler handles statement uploads and batch inspection.
type importHandler struct {
	importerService portssvc.ImporterSvcFacade
}

// registerImportRoutes registers statement import routes.
func registerImportRoutes(rg *gin.RouterGroup, importerService portssvc.ImporterSvcFacade) {
	h := &importHandler{importerService: importerService}

	rg.POST("/bank-accounts/:bank_account_id/import", h.importStatement)
	rg.GET("/batches/:batch_id/transactions", h.listBatchTransactions)
}

func (h *importHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pharmacyID, userID, ok := requestIdentity(c)
	if !ok {
		return
	}
	bankAccountID := c.Param("bank_account_id")

	var opts dto.ImportStatementRequest
	if err := c.ShouldBind(&opts); err != nil {
		logger.Warn("Failed to bind import options", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing statement file in form field 'file'"})
		return
	}
	if fileHeader.Size > maxStatementBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "statement file exceeds 10 MiB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxStatementBytes+1))
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	result, err := h.importerService.ImportStatement(c.Request.Context(), pharmacyID, bankAccountID, fileBytes, fileHeader.Filename, opts, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *importHandler) listBatchTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txns, err := h.importerService.ListBatchTransactions(c.Request.Context(), c.Param("pharmacy_id"), c.Param("batch_id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}
