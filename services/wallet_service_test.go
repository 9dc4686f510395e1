package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/coffee-order-app/models"
)

func TestWalletCreditAndDebit(t *testing.T) {
	db := openTestDB("wallet_credit_debit")
	account := seedAccount(db, 10.00)
	svc := NewWalletService(db)

	updated, err := svc.Credit(account.ID, 25.50)
	assert.NoError(t, err)
	assert.InDelta(t, 35.50, updated.WalletBalance, 0.001)

	updated, err = svc.Debit(account.ID, 5.50)
	assert.NoError(t, err)
	assert.InDelta(t, 30.00, updated.WalletBalance, 0.001)
}

func TestWalletDebitNeverGoesNegative(t *testing.T) {
	db := openTestDB("wallet_no_negative")
	account := seedAccount(db, 10.00)
	svc := NewWalletService(db)

	_, err := svc.Debit(account.ID, 10.01)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// The failed debit must not have applied a partial amount.
	var reloaded models.Account
	assert.NoError(t, db.First(&reloaded, account.ID).Error)
	assert.InDelta(t, 10.00, reloaded.WalletBalance, 0.001)

	// Draining to exactly zero is allowed.
	updated, err := svc.Debit(account.ID, 10.00)
	assert.NoError(t, err)
	assert.InDelta(t, 0.00, updated.WalletBalance, 0.001)
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	db := openTestDB("wallet_invalid_amount")
	account := seedAccount(db, 10.00)
	svc := NewWalletService(db)

	_, err := svc.Credit(account.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Debit(account.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestLoyaltyPointsFloor(t *testing.T) {
	db := openTestDB("wallet_loyalty_floor")
	svc := NewWalletService(db)

	assert.Equal(t, 0, svc.LoyaltyPointsFor(9.99))
	assert.Equal(t, 1, svc.LoyaltyPointsFor(10.00))
	assert.Equal(t, 1, svc.LoyaltyPointsFor(19.99))
	assert.Equal(t, 2, svc.LoyaltyPointsFor(20.00))
	assert.Equal(t, 0, svc.LoyaltyPointsFor(-5))
}

func TestAccrueLoyalty(t *testing.T) {
	db := openTestDB("wallet_accrue")
	account := seedAccount(db, 0)
	svc := NewWalletService(db)

	updated, err := svc.AccrueLoyalty(account.ID, 27.50)
	assert.NoError(t, err)
	assert.Equal(t, 2, updated.LoyaltyPoints)

	// A spend below the rate accrues nothing.
	updated, err = svc.AccrueLoyalty(account.ID, 4.00)
	assert.NoError(t, err)
	assert.Equal(t, 2, updated.LoyaltyPoints)
}

func TestTopUpWithoutGatewayCreditsDirectly(t *testing.T) {
	db := openTestDB("wallet_topup_direct")
	account := seedAccount(db, 5.00)
	svc := NewWalletService(db)

	result, err := svc.TopUp(TopUpInput{AccountID: account.ID, Amount: 20.00, Method: "cash"})
	assert.NoError(t, err)
	assert.Nil(t, result.Charge)
	assert.Equal(t, models.TransactionStatusSuccess, result.Transaction.Status)
	assert.InDelta(t, 25.00, result.Transaction.ResultingBalance, 0.001)

	var reloaded models.Account
	assert.NoError(t, db.First(&reloaded, account.ID).Error)
	assert.InDelta(t, 25.00, reloaded.WalletBalance, 0.001)
}

func TestConfirmTopUpIsIdempotent(t *testing.T) {
	db := openTestDB("wallet_topup_idempotent")
	account := seedAccount(db, 0)
	svc := NewWalletService(db)

	result, err := svc.TopUp(TopUpInput{AccountID: account.ID, Amount: 15.00})
	assert.NoError(t, err)
	ref := result.Transaction.ReferenceID

	// Re-delivered callback: terminal transaction stays as-is, no second credit.
	confirmed, err := svc.ConfirmTopUp(ref, models.TransactionStatusSuccess)
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, confirmed.Status)

	var reloaded models.Account
	assert.NoError(t, db.First(&reloaded, account.ID).Error)
	assert.InDelta(t, 15.00, reloaded.WalletBalance, 0.001)

	var count int64
	db.Model(&models.WalletTransaction{}).Where("account_id = ?", account.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestConfirmTopUpFailedDoesNotCredit(t *testing.T) {
	db := openTestDB("wallet_topup_failed")
	account := seedAccount(db, 0)
	svc := NewWalletService(db)
	svc.UseGateway(NewTopUpGateway(&GatewayConfig{
		BaseURL:    "http://127.0.0.1:1", // unreachable on purpose
		ServerKey:  "k",
		MerchantID: "m",
	}))

	_, err := svc.TopUp(TopUpInput{AccountID: account.ID, Amount: 15.00})
	assert.Error(t, err)

	var txn models.WalletTransaction
	assert.NoError(t, db.Where("account_id = ?", account.ID).First(&txn).Error)
	assert.Equal(t, models.TransactionStatusFailed, txn.Status)

	var reloaded models.Account
	assert.NoError(t, db.First(&reloaded, account.ID).Error)
	assert.InDelta(t, 0.00, reloaded.WalletBalance, 0.001)
}
