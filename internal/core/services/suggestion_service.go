package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portsrepo "github.com/pharbooks/pharma_books_app/internal/core/ports/repositories"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/middleware"
)

// suggestionService implements portssvc.SuggestionSvcFacade. The external
// classifier is best-effort: any adapter failure degrades to "no suggestion"
// and the transaction stays unclassified.
type suggestionService struct {
	suggestionRepo portsrepo.SuggestionRepositoryFacade
	txnRepo        portsrepo.BankTransactionRepositoryFacade
	accountSvc     portssvc.AccountSvcFacade
	ledgerSvc      portssvc.LedgerSvcFacade

	client     *http.Client
	suggestURL string
}

// NewSuggestionService creates a new AI suggestion service. An empty
// suggestURL disables the external call entirely.
func NewSuggestionService(
	suggestionRepo portsrepo.SuggestionRepositoryFacade,
	txnRepo portsrepo.BankTransactionRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	suggestURL string,
	timeout time.Duration,
) portssvc.SuggestionSvcFacade {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		txnRepo:        txnRepo,
		accountSvc:     accountSvc,
		ledgerSvc:      ledgerSvc,
		client:         &http.Client{Timeout: timeout},
		suggestURL:     suggestURL,
	}
}

// classifyRequest is the payload sent to the external classifier.
type classifyRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// classifyResponse is the payload expected back from the classifier.
type classifyResponse struct {
	AccountCode int     `json:"accountCode"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// SuggestForTransaction asks the external classifier for a proposal, stores
// it and moves the transaction to ai_classified. Advisory only: no ledger
// entry is created here.
func (s *suggestionService) SuggestForTransaction(ctx context.Context, pharmacyID, transactionID, userID string) (*domain.AISuggestion, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.PharmacyID != pharmacyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	if txn.Status != domain.Unclassified {
		return nil, apperrors.NewConflictError(fmt.Sprintf("transaction %s is not eligible for suggestions (%s)", transactionID, txn.Status))
	}

	if s.suggestURL == "" {
		return nil, nil
	}

	proposal, err := s.callClassifier(ctx, txn)
	if err != nil {
		logger.Warn("Suggestion classifier unavailable",
			slog.String("transactionID", transactionID), slog.String("error", err.Error()))
		return nil, nil
	}

	// A code the pharmacy's chart does not know is a useless proposal.
	if _, err := s.accountSvc.GetAccountByCode(ctx, pharmacyID, proposal.AccountCode); err != nil {
		logger.Warn("Classifier proposed unknown account code",
			slog.String("transactionID", transactionID), slog.Int("code", proposal.AccountCode))
		return nil, nil
	}

	now := time.Now()
	suggestion := domain.AISuggestion{
		SuggestionID:         uuid.New().String(),
		TransactionID:        transactionID,
		PharmacyID:           pharmacyID,
		SuggestedAccountCode: proposal.AccountCode,
		SuggestedDescription: proposal.Description,
		Confidence:           proposal.Confidence,
		Status:               domain.SuggestionPending,
		AuditFields:          newAuditFields(userID, now),
	}
	if err := s.suggestionRepo.SaveSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}
	if err := s.txnRepo.UpdateSuggestionState(ctx, transactionID, domain.AIClassified, &suggestion.SuggestionID, userID, now); err != nil {
		return nil, err
	}

	logger.Info("Suggestion stored",
		slog.String("suggestionID", suggestion.SuggestionID),
		slog.String("transactionID", transactionID),
		slog.Float64("confidence", suggestion.Confidence))
	return &suggestion, nil
}

// AcceptSuggestion posts the ledger entry for the suggested account and
// records the human decision.
func (s *suggestionService) AcceptSuggestion(ctx context.Context, pharmacyID, transactionID, userID string) (*domain.LedgerEntry, error) {
	txn, suggestion, err := s.loadPendingSuggestion(ctx, pharmacyID, transactionID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountSvc.GetAccountByCode(ctx, pharmacyID, suggestion.SuggestedAccountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConfigurationError(fmt.Sprintf(
				"suggested account code %d no longer exists in the chart of accounts", suggestion.SuggestedAccountCode))
		}
		return nil, err
	}

	description := suggestion.SuggestedDescription
	if description == "" {
		description = txn.Description
	}

	now := time.Now()
	entryID, err := s.ledgerSvc.PostForTransaction(ctx, portssvc.PostBankTransactionRequest{
		Transaction:     *txn,
		TargetAccountID: account.AccountID,
		Description:     description,
		Status:          domain.UserOverride,
		SuggestionID:    &suggestion.SuggestionID,
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.suggestionRepo.UpdateSuggestionStatus(ctx, suggestion.SuggestionID, domain.SuggestionAccepted, userID, now); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Suggestion accepted",
		slog.String("suggestionID", suggestion.SuggestionID), slog.String("ledgerEntryID", entryID))
	return s.ledgerSvc.GetLedgerEntryByID(ctx, pharmacyID, entryID)
}

// RejectSuggestion discards the proposal and returns the transaction to
// unclassified so rules or a human can pick it up again.
func (s *suggestionService) RejectSuggestion(ctx context.Context, pharmacyID, transactionID, userID string) error {
	_, suggestion, err := s.loadPendingSuggestion(ctx, pharmacyID, transactionID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := s.suggestionRepo.UpdateSuggestionStatus(ctx, suggestion.SuggestionID, domain.SuggestionRejected, userID, now); err != nil {
		return err
	}
	if err := s.txnRepo.UpdateSuggestionState(ctx, transactionID, domain.Unclassified, nil, userID, now); err != nil {
		return err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Suggestion rejected",
		slog.String("suggestionID", suggestion.SuggestionID), slog.String("transactionID", transactionID))
	return nil
}

// loadPendingSuggestion resolves the transaction and its pending suggestion,
// enforcing ownership and the ai_classified state.
func (s *suggestionService) loadPendingSuggestion(ctx context.Context, pharmacyID, transactionID string) (*domain.BankTransaction, *domain.AISuggestion, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if txn.PharmacyID != pharmacyID {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	if txn.Status != domain.AIClassified || txn.AISuggestionID == nil {
		return nil, nil, apperrors.NewConflictError(fmt.Sprintf("transaction %s has no pending suggestion", transactionID))
	}

	suggestion, err := s.suggestionRepo.FindSuggestionByID(ctx, *txn.AISuggestionID)
	if err != nil {
		return nil, nil, err
	}
	if suggestion.Status != domain.SuggestionPending {
		return nil, nil, apperrors.NewConflictError(fmt.Sprintf("suggestion %s was already decided (%s)", suggestion.SuggestionID, suggestion.Status))
	}
	return txn, suggestion, nil
}

// callClassifier sends one transaction to the external endpoint.
func (s *suggestionService) callClassifier(ctx context.Context, txn *domain.BankTransaction) (*classifyResponse, error) {
	payload, err := json.Marshal(classifyRequest{
		Description: txn.Description,
		Amount:      txn.Amount,
		Date:        txn.Date.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.suggestURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if out.AccountCode <= 0 {
		return nil, errors.New("classifier returned no account code")
	}
	return &out, nil
}
