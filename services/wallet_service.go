package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/utils"
)

// DefaultLoyaltyRate is the spend (in currency units) required to earn
// one loyalty point. Overridable via the LOYALTY_RATE env variable.
const DefaultLoyaltyRate = 10.0

// WalletService handles all wallet balance and loyalty mutations.
// Debits and credits against one account are serialized by a row lock so
// concurrent settlements cannot both pass the balance check.
type WalletService struct {
	db          *gorm.DB
	gateway     *TopUpGateway
	loyaltyRate float64
}

// NewWalletService creates a WalletService without an external top-up
// gateway; top-ups are then credited directly (cash-style).
func NewWalletService(db *gorm.DB) *WalletService {
	rate := DefaultLoyaltyRate
	if v := os.Getenv("LOYALTY_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rate = parsed
		}
	}
	return &WalletService{db: db, loyaltyRate: rate}
}

// UseGateway attaches an external mobile-money gateway; top-ups then stay
// pending until the gateway callback confirms them.
func (s *WalletService) UseGateway(gw *TopUpGateway) {
	s.gateway = gw
}

// lockAccount loads an account under FOR UPDATE inside tx.
func lockAccount(tx *gorm.DB, accountID uint) (*models.Account, error) {
	var account models.Account
	err := lockForUpdate(tx).First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// creditAccount applies a credit to an already locked account.
func creditAccount(tx *gorm.DB, account *models.Account, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	account.WalletBalance = utils.Round2(account.WalletBalance + amount)
	account.UpdatedAt = time.Now()
	return tx.Save(account).Error
}

// debitAccount applies a debit to an already locked account. A debit that
// would drive the balance negative applies no change at all.
func debitAccount(tx *gorm.DB, account *models.Account, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if account.WalletBalance < amount {
		return ErrInsufficientFunds
	}
	account.WalletBalance = utils.Round2(account.WalletBalance - amount)
	account.UpdatedAt = time.Now()
	return tx.Save(account).Error
}

// Credit increases the wallet balance of an account.
func (s *WalletService) Credit(accountID uint, amount float64) (*models.Account, error) {
	var account *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = lockAccount(tx, accountID)
		if err != nil {
			return err
		}
		return creditAccount(tx, account, amount)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Debit decreases the wallet balance of an account, failing with
// ErrInsufficientFunds if the balance would go negative.
func (s *WalletService) Debit(accountID uint, amount float64) (*models.Account, error) {
	var account *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = lockAccount(tx, accountID)
		if err != nil {
			return err
		}
		return debitAccount(tx, account, amount)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// LoyaltyPointsFor returns floor(amount / rate); never negative.
func (s *WalletService) LoyaltyPointsFor(amount float64) int {
	if amount <= 0 {
		return 0
	}
	return int(amount / s.loyaltyRate)
}

// AccrueLoyalty adds the points earned for the given spend.
func (s *WalletService) AccrueLoyalty(accountID uint, amount float64) (*models.Account, error) {
	points := s.LoyaltyPointsFor(amount)
	var account *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = lockAccount(tx, accountID)
		if err != nil {
			return err
		}
		if points == 0 {
			return nil
		}
		account.LoyaltyPoints += points
		account.UpdatedAt = time.Now()
		return tx.Save(account).Error
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns the account by ID.
func (s *WalletService) GetAccount(accountID uint) (*models.Account, error) {
	var account models.Account
	err := s.db.First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Transactions lists the wallet history of an account, newest first.
func (s *WalletService) Transactions(accountID uint) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := s.db.Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&txns).Error
	return txns, err
}

// TopUpInput carries a wallet top-up request.
type TopUpInput struct {
	AccountID   uint
	Amount      float64
	Phone       string
	Method      string
	Description string
}

// TopUpResult is the receipt returned to the caller. Charge is only set
// when an external gateway is configured.
type TopUpResult struct {
	Transaction *models.WalletTransaction `json:"transaction"`
	Charge      *ChargeResponse           `json:"charge,omitempty"`
}

// TopUp starts a wallet top-up. With a gateway attached the transaction
// stays pending until ConfirmTopUp is called from the provider callback;
// without one the credit is applied immediately.
func (s *WalletService) TopUp(input TopUpInput) (*TopUpResult, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	account, err := s.GetAccount(input.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Status != models.AccountStatusActive {
		return nil, ErrAccountInactive
	}

	txn := &models.WalletTransaction{
		AccountID:   input.AccountID,
		Type:        models.TransactionTypeTopUp,
		Status:      models.TransactionStatusPending,
		Amount:      utils.Round2(input.Amount),
		Method:      input.Method,
		Phone:       input.Phone,
		ReferenceID: uuid.NewString(),
		Description: input.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.Create(txn).Error; err != nil {
		return nil, err
	}

	if s.gateway == nil {
		confirmed, err := s.ConfirmTopUp(txn.ReferenceID, models.TransactionStatusSuccess)
		if err != nil {
			return nil, err
		}
		return &TopUpResult{Transaction: confirmed}, nil
	}

	charge, err := s.gateway.CreateCharge(ChargeRequest{
		ReferenceID: txn.ReferenceID,
		Amount:      txn.Amount,
		Method:      input.Method,
		Phone:       input.Phone,
		Description: input.Description,
	})
	if err != nil {
		// Mark the receipt failed so the client can retry with a fresh one.
		if updErr := s.db.Model(txn).Updates(map[string]interface{}{
			"status":     models.TransactionStatusFailed,
			"updated_at": time.Now(),
		}).Error; updErr != nil {
			utils.ErrorLogger.Printf("Error marking top-up %s failed: %v", txn.ReferenceID, updErr)
		}
		return nil, fmt.Errorf("top-up charge failed: %w", err)
	}

	return &TopUpResult{Transaction: txn, Charge: charge}, nil
}

// ConfirmTopUp finalizes a pending top-up. Re-delivery of the same
// callback is a no-op: a transaction already in a terminal status is
// returned unchanged.
func (s *WalletService) ConfirmTopUp(referenceID, status string) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("reference_id = ?", referenceID).
			First(&txn).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}

		if txn.Status != models.TransactionStatusPending {
			return nil
		}

		txn.Status = status
		txn.UpdatedAt = time.Now()

		if status == models.TransactionStatusSuccess {
			account, err := lockAccount(tx, txn.AccountID)
			if err != nil {
				return err
			}
			if err := creditAccount(tx, account, txn.Amount); err != nil {
				return err
			}
			txn.ResultingBalance = account.WalletBalance
		}

		return tx.Save(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
