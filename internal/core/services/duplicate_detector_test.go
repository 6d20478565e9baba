package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/pharbooks/pharma_books_app/internal/core/domain"
	"github.com/pharbooks/pharma_books_app/internal/core/services"
	"github.com/pharbooks/pharma_books_app/internal/statement"
)

type DuplicateDetectorTestSuite struct {
	suite.Suite
	mockTxnRepo *MockBankTransactionRepository
	detector    *services.DuplicateDetector
	ctx         context.Context
}

func (suite *DuplicateDetectorTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockBankTransactionRepository)
	suite.detector = services.NewDuplicateDetector(suite.mockTxnRepo)
	suite.ctx = context.Background()
}

const detectorBankAccountID = "bank-acc-1"

func parsedRow(rowNum int, date time.Time, description, amount string) statement.ParsedRow {
	return statement.ParsedRow{
		RowNumber:   rowNum,
		Date:        date,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
	}
}

func storedTxn(date time.Time, description, amount string) domain.BankTransaction {
	amt := decimal.RequireFromString(amount)
	return domain.BankTransaction{
		TransactionID: "stored-" + description,
		BankAccountID: detectorBankAccountID,
		Date:          date,
		Description:   description,
		Amount:        amt,
		ExternalID:    services.Fingerprint(detectorBankAccountID, date, amt, description),
	}
}

func (suite *DuplicateDetectorTestSuite) TestClassify_EmptyInput() {
	verdicts, err := suite.detector.Classify(suite.ctx, detectorBankAccountID, nil)
	suite.Require().NoError(err)
	suite.Empty(verdicts)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindByBankAccountAndPeriod")
}

func (suite *DuplicateDetectorTestSuite) TestClassify_AllNewAgainstEmptyStore() {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []statement.ParsedRow{
		parsedRow(1, day, "EFT SALARY", "1000"),
		parsedRow(2, day.AddDate(0, 0, 1), "POS PURCHASE", "-50"),
	}

	suite.mockTxnRepo.On("FindByBankAccountAndPeriod", suite.ctx, detectorBankAccountID, day, day.AddDate(0, 0, 1)).
		Return([]domain.BankTransaction{}, nil).Once()

	verdicts, err := suite.detector.Classify(suite.ctx, detectorBankAccountID, rows)
	suite.Require().NoError(err)
	suite.Require().Len(verdicts, 2)
	for _, v := range verdicts {
		suite.Equal(services.DupNew, v.Outcome)
		suite.NotEmpty(v.ExternalID)
	}
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *DuplicateDetectorTestSuite) TestClassify_FingerprintMatchIsExact() {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	stored := storedTxn(day, "EFT SALARY", "1000")

	suite.mockTxnRepo.On("FindByBankAccountAndPeriod", suite.ctx, detectorBankAccountID, day, day).
		Return([]domain.BankTransaction{stored}, nil).Once()

	verdicts, err := suite.detector.Classify(suite.ctx, detectorBankAccountID, []statement.ParsedRow{
		parsedRow(1, day, "EFT SALARY", "1000"),
	})
	suite.Require().NoError(err)
	suite.Require().Len(verdicts, 1)
	suite.Equal(services.DupExact, verdicts[0].Outcome)
	suite.Equal(stored.ExternalID, verdicts[0].ExternalID)
}

func (suite *DuplicateDetectorTestSuite) TestClassify_SameDateAmountDifferentDescriptionIsSuspected() {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	stored := storedTxn(day, "POS PURCHASE CLICKS", "-50")

	suite.mockTxnRepo.On("FindByBankAccountAndPeriod", suite.ctx, detectorBankAccountID, day, day).
		Return([]domain.BankTransaction{stored}, nil).Once()

	verdicts, err := suite.detector.Classify(suite.ctx, detectorBankAccountID, []statement.ParsedRow{
		parsedRow(1, day, "POS PURCHASE DIS-CHEM", "-50"),
	})
	suite.Require().NoError(err)
	suite.Require().Len(verdicts, 1)
	suite.Equal(services.DupSuspected, verdicts[0].Outcome)
}

func (suite *DuplicateDetectorTestSuite) TestClassify_DifferentAmountIsNew() {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	stored := storedTxn(day, "POS PURCHASE CLICKS", "-50")

	suite.mockTxnRepo.On("FindByBankAccountAndPeriod", suite.ctx, detectorBankAccountID, day, day).
		Return([]domain.BankTransaction{stored}, nil).Once()

	verdicts, err := suite.detector.Classify(suite.ctx, detectorBankAccountID, []statement.ParsedRow{
		parsedRow(1, day, "POS PURCHASE CLICKS", "-51"),
	})
	suite.Require().NoError(err)
	suite.Require().Len(verdicts, 1)
	suite.Equal(services.DupNew, verdicts[0].Outcome)
}

func (suite *DuplicateDetectorTestSuite) TestClassify_DuplicateInsideSameFile() {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTxnRepo.On("FindByBankAccountAndPeriod", suite.ctx, detectorBankAccountID, day, day).
		Return([]domain.BankTransaction{}, nil).Once()

	verdicts, err := suite.detector.Classify(suite.ctx, detectorBankAccountID, []statement.ParsedRow{
		parsedRow(1, day, "DEBIT ORDER MEDICAL AID", "-2500"),
		parsedRow(2, day, "DEBIT ORDER MEDICAL AID", "-2500"),
	})
	suite.Require().NoError(err)
	suite.Require().Len(verdicts, 2)
	suite.Equal(services.DupNew, verdicts[0].Outcome)
	suite.Equal(services.DupExact, verdicts[1].Outcome)
}

func (suite *DuplicateDetectorTestSuite) TestClassify_RepositoryFailure() {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTxnRepo.On("FindByBankAccountAndPeriod", suite.ctx, detectorBankAccountID, day, day).
		Return(nil, assert.AnError).Once()

	verdicts, err := suite.detector.Classify(suite.ctx, detectorBankAccountID, []statement.ParsedRow{
		parsedRow(1, day, "ANY", "1"),
	})
	suite.Require().Error(err)
	suite.Nil(verdicts)
}

func TestFingerprint_Deterministic(t *testing.T) {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	amt := decimal.RequireFromString("-150.00")

	a := services.Fingerprint("acc", day, amt, "POS  purchase clicks")
	b := services.Fingerprint("acc", day, amt, "pos purchase  CLICKS")
	assert.Equal(t, a, b, "fingerprint must normalize description whitespace and case")
	assert.Len(t, a, 64)

	c := services.Fingerprint("acc", day, amt, "pos purchase dis-chem")
	assert.NotEqual(t, a, c)

	d := services.Fingerprint("other-acc", day, amt, "pos purchase clicks")
	assert.NotEqual(t, a, d)
}

func TestDuplicateDetectorTestSuite(t *testing.T) {
	suite.Run(t, new(DuplicateDetectorTestSuite))
}
