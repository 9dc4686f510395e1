package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/coffee-order-app/models"
)

func TestGeneratePaymentCode(t *testing.T) {
	db := openTestDB("codes_generate")
	account := seedAccount(db, 0)
	svc := NewPaymentCodeService(db)

	code, err := svc.Generate(account.ID)
	assert.NoError(t, err)
	assert.Len(t, code.Code, 8)
	assert.Equal(t, models.PaymentCodeStatusActive, code.Status)
	assert.WithinDuration(t, time.Now().Add(svc.ttl), code.ExpiresAt, 2*time.Second)
}

func TestGenerateInvalidatesPreviousCode(t *testing.T) {
	db := openTestDB("codes_single_active")
	account := seedAccount(db, 0)
	svc := NewPaymentCodeService(db)

	first, err := svc.Generate(account.ID)
	assert.NoError(t, err)
	second, err := svc.Generate(account.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.Code, second.Code)

	var reloaded models.PaymentCode
	assert.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.Equal(t, models.PaymentCodeStatusExpired, reloaded.Status)

	var active int64
	db.Model(&models.PaymentCode{}).
		Where("account_id = ? AND status = ?", account.ID, models.PaymentCodeStatusActive).
		Count(&active)
	assert.Equal(t, int64(1), active)
}

func TestGenerateRequiresActiveAccount(t *testing.T) {
	db := openTestDB("codes_blocked")
	account := seedAccount(db, 0)
	db.Model(account).Update("status", models.AccountStatusBlocked)
	svc := NewPaymentCodeService(db)

	_, err := svc.Generate(account.ID)
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = svc.Generate(9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSweepExpiredCodes(t *testing.T) {
	db := openTestDB("codes_sweep")
	account := seedAccount(db, 0)
	svc := NewPaymentCodeService(db)

	stale := seedPaymentCode(db, account.ID, time.Now().Add(-time.Minute))
	fresh := seedPaymentCode(db, account.ID, time.Now().Add(5*time.Minute))

	svc.SweepExpiredCodes()

	// Separate destination structs: reusing one would carry the first
	// primary key into the second query's conditions.
	var sweptCode models.PaymentCode
	assert.NoError(t, db.First(&sweptCode, stale.ID).Error)
	assert.Equal(t, models.PaymentCodeStatusExpired, sweptCode.Status)

	var freshCode models.PaymentCode
	assert.NoError(t, db.First(&freshCode, fresh.ID).Error)
	assert.Equal(t, models.PaymentCodeStatusActive, freshCode.Status)
}
