package services

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/utils"
)

// DefaultCodeTTL is how long a payment code stays valid. Overridable via
// the PAYMENT_CODE_TTL_MINUTES env variable.
const DefaultCodeTTL = 5 * time.Minute

// PaymentCodeService issues and sweeps the short-lived codes used to
// authorize in-person settlements.
type PaymentCodeService struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewPaymentCodeService(db *gorm.DB) *PaymentCodeService {
	ttl := DefaultCodeTTL
	if v := os.Getenv("PAYMENT_CODE_TTL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			ttl = time.Duration(minutes) * time.Minute
		}
	}
	return &PaymentCodeService{db: db, ttl: ttl}
}

// newCode derives a short opaque code from a v4 UUID.
func newCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}

// Generate issues a fresh payment code bound to the requesting account.
// Any previously active codes of that account are invalidated so only
// one code is live at a time.
func (s *PaymentCodeService) Generate(accountID uint) (*models.PaymentCode, error) {
	var account models.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.Status != models.AccountStatusActive {
		return nil, ErrAccountInactive
	}

	code := models.PaymentCode{
		AccountID: accountID,
		Code:      newCode(),
		Status:    models.PaymentCodeStatusActive,
		ExpiresAt: time.Now().Add(s.ttl),
		CreatedAt: time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PaymentCode{}).
			Where("account_id = ? AND status = ?", accountID, models.PaymentCodeStatusActive).
			Update("status", models.PaymentCodeStatusExpired).Error; err != nil {
			return err
		}
		return tx.Create(&code).Error
	})
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// lockPaymentCode loads a code under FOR UPDATE and validates it. Unknown
// or used codes fail with ErrInvalidCode, stale ones with ErrExpiredCode.
func lockPaymentCode(tx *gorm.DB, code string) (*models.PaymentCode, error) {
	var pc models.PaymentCode
	err := lockForUpdate(tx).
		Where("code = ?", code).
		First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	switch {
	case pc.Status == models.PaymentCodeStatusUsed:
		return nil, ErrInvalidCode
	case pc.Status == models.PaymentCodeStatusExpired, pc.IsExpired(time.Now()):
		return nil, ErrExpiredCode
	}
	return &pc, nil
}

// markPaymentCodeUsed consumes a code inside the settlement transaction.
func markPaymentCodeUsed(tx *gorm.DB, pc *models.PaymentCode) error {
	now := time.Now()
	pc.Status = models.PaymentCodeStatusUsed
	pc.UsedAt = &now
	return tx.Save(pc).Error
}

// StartExpiryChecker runs a background sweeper that flags stale codes.
func (s *PaymentCodeService) StartExpiryChecker() {
	go s.expiryChecker()
	utils.InfoLogger.Println("Payment code expiry checker started")
}

func (s *PaymentCodeService) expiryChecker() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.SweepExpiredCodes()
	}
}

// SweepExpiredCodes marks every active code past its expiry as expired.
// Settlement does not depend on the sweep; lockPaymentCode checks the
// timestamp itself.
func (s *PaymentCodeService) SweepExpiredCodes() {
	res := s.db.Model(&models.PaymentCode{}).
		Where("status = ? AND expires_at < ?", models.PaymentCodeStatusActive, time.Now()).
		Update("status", models.PaymentCodeStatusExpired)
	if res.Error != nil {
		utils.ErrorLogger.Printf("Error sweeping expired payment codes: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Marked %d payment codes expired", res.RowsAffected)
	}
}
