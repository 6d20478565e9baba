package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
)

// fakeTx is a pgx.Tx stand-in for services that only pass the transaction
// through to mocked repositories. Savepoints loop back to the same value.
type fakeTx struct {
	pgx.Tx
}

func (f fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return f, nil }
func (f fakeTx) Commit(ctx context.Context) error          { return nil }
func (f fakeTx) Rollback(ctx context.Context) error        { return nil }

// --- Mock BankTransactionRepository ---

type MockBankTransactionRepository struct {
	mock.Mock
}

func (m *MockBankTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) FindByBankAccountAndPeriod(ctx context.Context, bankAccountID string, from, to time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) ListTransactionsByBatch(ctx context.Context, batchID string) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) InsertTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.BankTransaction) error {
	args := m.Called(ctx, tx, txns)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.BankTransaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) MarkClassifiedInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.ClassificationStatus, ruleID *string, suggestionID *string, ledgerEntryID *string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, transactionID, status, ruleID, suggestionID, ledgerEntryID, userID, now)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) UpdateSuggestionState(ctx context.Context, transactionID string, status domain.ClassificationStatus, suggestionID *string, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, status, suggestionID, userID, now)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockBankTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockBankTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ImportBatchRepository ---

type MockImportBatchRepository struct {
	mock.Mock
}

func (m *MockImportBatchRepository) InsertBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.ImportBatch) error {
	args := m.Called(ctx, tx, batch)
	return args.Error(0)
}

func (m *MockImportBatchRepository) InsertImportErrorsInTx(ctx context.Context, tx pgx.Tx, errs []domain.ImportError) error {
	args := m.Called(ctx, tx, errs)
	return args.Error(0)
}

func (m *MockImportBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportBatch), args.Error(1)
}

func (m *MockImportBatchRepository) ListImportErrorsByBatch(ctx context.Context, batchID string) ([]domain.ImportError, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportError), args.Error(1)
}

func (m *MockImportBatchRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockImportBatchRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockImportBatchRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) InsertLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindLedgerEntryByID(ctx context.Context, ledgerEntryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, ledgerEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByBankTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLedgerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock BankRuleRepository ---

type MockBankRuleRepository struct {
	mock.Mock
}

func (m *MockBankRuleRepository) SaveRule(ctx context.Context, rule domain.BankRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockBankRuleRepository) UpdateRule(ctx context.Context, rule domain.BankRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockBankRuleRepository) DeactivateRule(ctx context.Context, ruleID string, userID string, now time.Time) error {
	args := m.Called(ctx, ruleID, userID, now)
	return args.Error(0)
}

func (m *MockBankRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.BankRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankRule), args.Error(1)
}

func (m *MockBankRuleRepository) ListRulesByPharmacy(ctx context.Context, pharmacyID string, activeOnly bool) ([]domain.BankRule, error) {
	args := m.Called(ctx, pharmacyID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankRule), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, pharmacyID string, code int) (*domain.Account, error) {
	args := m.Called(ctx, pharmacyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindActiveAssetInCodeRange(ctx context.Context, pharmacyID string, lowCode, highCode int) (*domain.Account, error) {
	args := m.Called(ctx, pharmacyID, lowCode, highCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, pharmacyID string) ([]domain.Account, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock BankAccountRepository ---

type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ListBankAccountsByPharmacy(ctx context.Context, pharmacyID string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

// --- Mock PharmacyRepository ---

type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) SavePharmacy(ctx context.Context, pharmacy domain.Pharmacy) error {
	args := m.Called(ctx, pharmacy)
	return args.Error(0)
}

func (m *MockPharmacyRepository) FindPharmacyByID(ctx context.Context, pharmacyID string) (*domain.Pharmacy, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pharmacy), args.Error(1)
}

// --- Mock SuggestionRepository ---

type MockSuggestionRepository struct {
	mock.Mock
}

func (m *MockSuggestionRepository) SaveSuggestion(ctx context.Context, suggestion domain.AISuggestion) error {
	args := m.Called(ctx, suggestion)
	return args.Error(0)
}

func (m *MockSuggestionRepository) FindSuggestionByID(ctx context.Context, suggestionID string) (*domain.AISuggestion, error) {
	args := m.Called(ctx, suggestionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AISuggestion), args.Error(1)
}

func (m *MockSuggestionRepository) UpdateSuggestionStatus(ctx context.Context, suggestionID string, status domain.SuggestionStatus, userID string, now time.Time) error {
	args := m.Called(ctx, suggestionID, status, userID, now)
	return args.Error(0)
}

// --- Mock AccountSvc ---

type MockAccountSvc struct {
	mock.Mock
}

func (m *MockAccountSvc) CreateAccount(ctx context.Context, pharmacyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, pharmacyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountByID(ctx context.Context, pharmacyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, pharmacyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountByCode(ctx context.Context, pharmacyID string, code int) (*domain.Account, error) {
	args := m.Called(ctx, pharmacyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ListAccounts(ctx context.Context, pharmacyID string) ([]domain.Account, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) FindBankLedgerAccount(ctx context.Context, pharmacyID string) (*domain.Account, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock BankAccountSvc ---

type MockBankAccountSvc struct {
	mock.Mock
}

func (m *MockBankAccountSvc) CreateBankAccount(ctx context.Context, pharmacyID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, pharmacyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountSvc) GetBankAccount(ctx context.Context, pharmacyID, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, pharmacyID, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountSvc) GetActiveBankAccount(ctx context.Context, pharmacyID, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, pharmacyID, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountSvc) ListBankAccounts(ctx context.Context, pharmacyID string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, pharmacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

// --- Mock LedgerSvc ---

type MockLedgerSvc struct {
	mock.Mock
}

func (m *MockLedgerSvc) PostForTransaction(ctx context.Context, req portssvc.PostBankTransactionRequest, userID string) (string, error) {
	args := m.Called(ctx, req, userID)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerSvc) ClassifyManually(ctx context.Context, pharmacyID, transactionID string, req dto.ManualClassifyRequest, userID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, pharmacyID, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerSvc) PostManual(ctx context.Context, pharmacyID string, req dto.CreateLedgerEntryRequest, userID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, pharmacyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerSvc) GetLedgerEntryByID(ctx context.Context, pharmacyID, ledgerEntryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, pharmacyID, ledgerEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
