package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pharbooks/pharma_books_app/internal/apperrors"
	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/core/services"
	portssvc "github.com/pharbooks/pharma_books_app/internal/core/ports/services"
	"github.com/pharbooks/pharma_books_app/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockTxnRepo    *MockBankTransactionRepository
	mockAccountSvc *MockAccountSvc
	service        portssvc.LedgerSvcFacade
	ctx            context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockTxnRepo = new(MockBankTransactionRepository)
	suite.mockAccountSvc = new(MockAccountSvc)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockTxnRepo, suite.mockAccountSvc)
	suite.ctx = context.Background()
}

const (
	ledgerPharmacyID    = "pharm-1"
	ledgerUserID        = "user-1"
	bankLedgerAccountID = "acc-bank"
	targetAccountID     = "acc-target"
)

func ledgerTxn(amount string) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID: "txn-1",
		BatchID:       "batch-1",
		BankAccountID: "bank-acc-1",
		PharmacyID:    ledgerPharmacyID,
		Date:          time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Description:   "EFT SALARY FEB",
		Amount:        decimal.RequireFromString(amount),
		Status:        domain.Unclassified,
	}
}

func (suite *LedgerServiceTestSuite) bankLedgerAccount() *domain.Account {
	return &domain.Account{
		AccountID:   bankLedgerAccountID,
		PharmacyID:  ledgerPharmacyID,
		Code:        8400,
		Name:        "Current Bank Account",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func (suite *LedgerServiceTestSuite) targetAccount(active bool) *domain.Account {
	return &domain.Account{
		AccountID:   targetAccountID,
		PharmacyID:  ledgerPharmacyID,
		Code:        1000,
		Name:        "Dispensary Sales",
		AccountType: domain.Income,
		IsActive:    active,
	}
}

func (suite *LedgerServiceTestSuite) expectNoExistingEntry() {
	suite.mockLedgerRepo.On("FindByBankTransactionID", suite.ctx, "txn-1").
		Return(nil, apperrors.NewNotFoundError("no entry")).Once()
}

func (suite *LedgerServiceTestSuite) expectPostingTx() {
	suite.mockLedgerRepo.On("Begin", suite.ctx).Return(fakeTx{}, nil).Once()
	suite.mockLedgerRepo.On("Commit", suite.ctx, fakeTx{}).Return(nil).Once()
	suite.mockLedgerRepo.On("Rollback", suite.ctx, fakeTx{}).Return(nil)
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_InflowDebitsBank() {
	txn := ledgerTxn("1000.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).Return(suite.bankLedgerAccount(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, targetAccountID).Return(suite.targetAccount(true), nil).Once()
	suite.expectPostingTx()

	suite.mockLedgerRepo.On("InsertLedgerEntryInTx", suite.ctx, fakeTx{}, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.DebitAccountID == bankLedgerAccountID &&
			e.CreditAccountID == targetAccountID &&
			e.Amount.Equal(decimal.RequireFromString("1000")) &&
			e.Source == domain.SourceBank &&
			e.BankTransactionID != nil && *e.BankTransactionID == "txn-1"
	})).Return(nil).Once()
	suite.mockTxnRepo.On("MarkClassifiedInTx", suite.ctx, fakeTx{}, "txn-1", domain.UserOverride,
		(*string)(nil), (*string)(nil), mock.AnythingOfType("*string"), ledgerUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	entryID, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Status:          domain.UserOverride,
	}, ledgerUserID)

	suite.Require().NoError(err)
	suite.NotEmpty(entryID)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_OutflowCreditsBank() {
	txn := ledgerTxn("-350.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).Return(suite.bankLedgerAccount(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, targetAccountID).Return(suite.targetAccount(true), nil).Once()
	suite.expectPostingTx()

	suite.mockLedgerRepo.On("InsertLedgerEntryInTx", suite.ctx, fakeTx{}, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.DebitAccountID == targetAccountID &&
			e.CreditAccountID == bankLedgerAccountID &&
			e.Amount.Equal(decimal.RequireFromString("350"))
	})).Return(nil).Once()
	suite.mockTxnRepo.On("MarkClassifiedInTx", suite.ctx, fakeTx{}, "txn-1", domain.RuleClassified,
		mock.AnythingOfType("*string"), (*string)(nil), mock.AnythingOfType("*string"), ledgerUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	ruleID := "rule-1"
	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Status:          domain.RuleClassified,
		RuleID:          &ruleID,
	}, ledgerUserID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_AmountOverride() {
	txn := ledgerTxn("-100.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).Return(suite.bankLedgerAccount(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, targetAccountID).Return(suite.targetAccount(true), nil).Once()
	suite.expectPostingTx()

	suite.mockLedgerRepo.On("InsertLedgerEntryInTx", suite.ctx, fakeTx{}, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount.Equal(decimal.RequireFromString("60"))
	})).Return(nil).Once()
	suite.mockTxnRepo.On("MarkClassifiedInTx", suite.ctx, fakeTx{}, "txn-1", domain.RuleClassified,
		(*string)(nil), (*string)(nil), mock.AnythingOfType("*string"), ledgerUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	split := decimal.RequireFromString("60")
	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Amount:          &split,
		Status:          domain.RuleClassified,
	}, ledgerUserID)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_ExistingEntryConflicts() {
	txn := ledgerTxn("100.00")
	suite.mockLedgerRepo.On("FindByBankTransactionID", suite.ctx, "txn-1").
		Return(&domain.LedgerEntry{LedgerEntryID: "entry-9"}, nil).Once()

	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Status:          domain.UserOverride,
	}, ledgerUserID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Begin")
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_LostInsertRaceIsConflict() {
	// A concurrent writer posts between the pre-check and the insert; the
	// unique-index conflict from the repo must reach the caller intact so
	// batch runs count the row as already classified.
	txn := ledgerTxn("100.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).Return(suite.bankLedgerAccount(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, targetAccountID).Return(suite.targetAccount(true), nil).Once()
	suite.mockLedgerRepo.On("Begin", suite.ctx).Return(fakeTx{}, nil).Once()
	suite.mockLedgerRepo.On("Rollback", suite.ctx, fakeTx{}).Return(nil)

	suite.mockLedgerRepo.On("InsertLedgerEntryInTx", suite.ctx, fakeTx{}, mock.AnythingOfType("domain.LedgerEntry")).
		Return(fmt.Errorf("%w: ledger entry for bank transaction already exists", apperrors.ErrConflict)).Once()

	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Status:          domain.RuleClassified,
	}, ledgerUserID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "MarkClassifiedInTx")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Commit")
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_MissingBankLedgerAccount() {
	txn := ledgerTxn("100.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).
		Return(nil, apperrors.NewConfigurationError("no active bank ledger account in code range 8400-8499")).Once()

	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Status:          domain.UserOverride,
	}, ledgerUserID)

	suite.Require().ErrorIs(err, apperrors.ErrConfiguration)
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_InactiveTargetRejected() {
	txn := ledgerTxn("100.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).Return(suite.bankLedgerAccount(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, targetAccountID).Return(suite.targetAccount(false), nil).Once()

	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Status:          domain.UserOverride,
	}, ledgerUserID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_TargetCannotBeBankAccount() {
	txn := ledgerTxn("100.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).Return(suite.bankLedgerAccount(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, bankLedgerAccountID).Return(suite.bankLedgerAccount(), nil).Once()

	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: bankLedgerAccountID,
		Status:          domain.UserOverride,
	}, ledgerUserID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPostForTransaction_ZeroAmountRejected() {
	txn := ledgerTxn("-100.00")
	suite.expectNoExistingEntry()
	suite.mockAccountSvc.On("FindBankLedgerAccount", suite.ctx, ledgerPharmacyID).Return(suite.bankLedgerAccount(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, targetAccountID).Return(suite.targetAccount(true), nil).Once()

	zero := decimal.Zero
	_, err := suite.service.PostForTransaction(suite.ctx, portssvc.PostBankTransactionRequest{
		Transaction:     txn,
		TargetAccountID: targetAccountID,
		Amount:          &zero,
		Status:          domain.RuleClassified,
	}, ledgerUserID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Begin")
}

func (suite *LedgerServiceTestSuite) TestClassifyManually_AlreadyClassifiedConflicts() {
	txn := ledgerTxn("100.00")
	txn.Status = domain.RuleClassified
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "txn-1").Return(&txn, nil).Once()

	_, err := suite.service.ClassifyManually(suite.ctx, ledgerPharmacyID, "txn-1", dto.ManualClassifyRequest{AccountID: targetAccountID}, ledgerUserID)
	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerServiceTestSuite) TestClassifyManually_WrongPharmacyIsNotFound() {
	txn := ledgerTxn("100.00")
	suite.mockTxnRepo.On("FindTransactionByID", suite.ctx, "txn-1").Return(&txn, nil).Once()

	_, err := suite.service.ClassifyManually(suite.ctx, "other-pharmacy", "txn-1", dto.ManualClassifyRequest{AccountID: targetAccountID}, ledgerUserID)
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestPostManual_Success() {
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, "acc-debit").
		Return(&domain.Account{AccountID: "acc-debit", PharmacyID: ledgerPharmacyID, IsActive: true}, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, ledgerPharmacyID, "acc-credit").
		Return(&domain.Account{AccountID: "acc-credit", PharmacyID: ledgerPharmacyID, IsActive: true}, nil).Once()
	suite.mockLedgerRepo.On("SaveLedgerEntry", suite.ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Source == domain.SourceManual && e.BankTransactionID == nil
	})).Return(nil).Once()

	entry, err := suite.service.PostManual(suite.ctx, ledgerPharmacyID, dto.CreateLedgerEntryRequest{
		Date:            time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Description:     "Owner capital injection",
		Amount:          decimal.RequireFromString("5000"),
		DebitAccountID:  "acc-debit",
		CreditAccountID: "acc-credit",
	}, ledgerUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.SourceManual, entry.Source)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostManual_Validation() {
	_, err := suite.service.PostManual(suite.ctx, ledgerPharmacyID, dto.CreateLedgerEntryRequest{
		Amount:          decimal.RequireFromString("-5"),
		DebitAccountID:  "a",
		CreditAccountID: "b",
	}, ledgerUserID)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.PostManual(suite.ctx, ledgerPharmacyID, dto.CreateLedgerEntryRequest{
		Amount:          decimal.RequireFromString("5"),
		DebitAccountID:  "a",
		CreditAccountID: "a",
	}, ledgerUserID)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestGetLedgerEntryByID_OwnershipEnforced() {
	entry := &domain.LedgerEntry{LedgerEntryID: "entry-1", PharmacyID: ledgerPharmacyID}
	suite.mockLedgerRepo.On("FindLedgerEntryByID", suite.ctx, "entry-1").Return(entry, nil).Twice()

	got, err := suite.service.GetLedgerEntryByID(suite.ctx, ledgerPharmacyID, "entry-1")
	suite.Require().NoError(err)
	suite.Equal("entry-1", got.LedgerEntryID)

	_, err = suite.service.GetLedgerEntryByID(suite.ctx, "other-pharmacy", "entry-1")
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
