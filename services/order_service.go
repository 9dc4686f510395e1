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

// DefaultDeliveryFee is charged on delivery orders. Overridable via the
// DELIVERY_FEE env variable.
const DefaultDeliveryFee = 2.50

// OrderService owns order creation, the settlement transaction and all
// order status transitions. Nothing else writes Order.Status or
// Order.State.
type OrderService struct {
	db          *gorm.DB
	wallet      *WalletService
	deliveryFee float64
}

func NewOrderService(db *gorm.DB, wallet *WalletService) *OrderService {
	fee := DefaultDeliveryFee
	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			fee = parsed
		}
	}
	return &OrderService{db: db, wallet: wallet, deliveryFee: fee}
}

// OrderItemInput is one requested line. Prices are always re-read from
// the catalog, never trusted from the client.
type OrderItemInput struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderInput struct {
	AccountID       uint
	Type            string
	PaymentMethod   string
	Terminal        string
	TableID         *uint
	DeliveryAddress string
	Items           []OrderItemInput
}

// getDiscount is the promotion hook. No promotions are live yet.
func getDiscount(subtotal float64) float64 {
	return 0
}

// CreateOrder validates the request, snapshots catalog prices into order
// items and creates the order in status pending / state ongoing.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	switch input.Type {
	case models.OrderTypeDelivery, models.OrderTypeDriveThru, models.OrderTypeDineIn:
	default:
		return nil, ErrInvalidOrderType
	}
	if input.Type == models.OrderTypeDelivery && strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, ErrInvalidAddress
	}

	// Merge duplicate (product, variant) lines before pricing.
	var requested models.Cart
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		requested.AddLine(models.CartLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "wallet"
	}
	terminal := input.Terminal
	if terminal == "" {
		terminal = "app"
	}

	order := models.Order{
		Ref:             uuid.NewString(),
		AccountID:       input.AccountID,
		Type:            input.Type,
		PaymentMethod:   paymentMethod,
		Terminal:        terminal,
		TableID:         input.TableID,
		DeliveryAddress: input.DeliveryAddress,
		Status:          models.OrderStatusPending,
		State:           models.OrderStateOngoing,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		items := make([]models.OrderItem, 0, len(requested.Lines))

		for _, line := range requested.Lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			var variant *models.ProductVariant
			if line.VariantID != nil {
				var v models.ProductVariant
				err := tx.Where("id = ? AND product_id = ?", *line.VariantID, product.ID).First(&v).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrVariantNotFound
				}
				if err != nil {
					return err
				}
				variant = &v
			}

			unitPrice := product.UnitPrice(variant)
			totalPrice := utils.Round2(unitPrice * float64(line.Quantity))
			subtotal += totalPrice

			items = append(items, models.OrderItem{
				ProductID:  product.ID,
				VariantID:  line.VariantID,
				Quantity:   line.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: totalPrice,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			})
		}

		order.Subtotal = utils.Round2(subtotal)
		if order.Type == models.OrderTypeDelivery {
			order.DeliveryFee = s.deliveryFee
		}
		order.Discount = getDiscount(order.Subtotal)
		order.TotalAmount = utils.Round2(order.Subtotal + order.DeliveryFee - order.Discount)
		order.Items = items

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s created: account=%d total=%s", order.Ref, order.AccountID, utils.FormatAmount(order.TotalAmount))
	return &order, nil
}

// Settle performs the payment transaction for an order: it validates the
// payment code, debits the paying account, accrues loyalty points, moves
// the order to state paid / status preparing and writes one ledger
// record. The whole unit is a single database transaction; if any step
// fails nothing is applied. Settling an already paid or closed order
// fails with ErrAlreadySettled and performs no ledger mutation.
func (s *OrderService) Settle(code, orderRef string) (*models.Order, *models.WalletTransaction, error) {
	var (
		order models.Order
		txn   models.WalletTransaction
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		paymentCode, err := lockPaymentCode(tx, code)
		if err != nil {
			return err
		}

		err = lockForUpdate(tx).
			Preload("Items").
			Where("ref = ?", orderRef).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if order.State != models.OrderStateOngoing {
			return ErrAlreadySettled
		}

		account, err := lockAccount(tx, paymentCode.AccountID)
		if err != nil {
			return err
		}
		if account.Status != models.AccountStatusActive {
			return ErrAccountInactive
		}
		if account.WalletBalance < order.TotalAmount {
			return ErrInsufficientFunds
		}

		// Compare-and-swap on state guards against a concurrent settlement
		// that slipped past the lock (e.g. on stores without row locking).
		res := tx.Model(&models.Order{}).
			Where("id = ? AND state = ?", order.ID, models.OrderStateOngoing).
			Updates(map[string]interface{}{
				"state":      models.OrderStatePaid,
				"status":     models.OrderStatusPreparing,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadySettled
		}

		if err := debitAccount(tx, account, order.TotalAmount); err != nil {
			return err
		}
		if points := s.wallet.LoyaltyPointsFor(order.TotalAmount); points > 0 {
			account.LoyaltyPoints += points
			if err := tx.Save(account).Error; err != nil {
				return err
			}
		}

		txn = models.WalletTransaction{
			AccountID:        account.ID,
			OrderID:          &order.ID,
			Type:             models.TransactionTypePayment,
			Status:           models.TransactionStatusSuccess,
			Amount:           order.TotalAmount,
			ResultingBalance: account.WalletBalance,
			Method:           order.PaymentMethod,
			ReferenceID:      uuid.NewString(),
			Description:      "Order " + order.Ref,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		if err := markPaymentCodeUsed(tx, paymentCode); err != nil {
			return err
		}

		order.State = models.OrderStatePaid
		order.Status = models.OrderStatusPreparing
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	utils.InfoLogger.Printf("Order %s settled: amount=%s balance=%s", order.Ref, utils.FormatAmount(txn.Amount), utils.FormatAmount(txn.ResultingBalance))
	return &order, &txn, nil
}

// AdvanceStatus moves an order along the operational state machine
// (preparing -> ready -> out_for_delivery -> delivered / completed).
// Settlement state is closed once the order reaches a fulfilled status.
func (s *OrderService) AdvanceStatus(orderID uint, newStatus string) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if !models.CanTransitionStatus(order.Status, newStatus) {
			return ErrInvalidTransition
		}

		order.Status = newStatus
		if (newStatus == models.OrderStatusDelivered || newStatus == models.OrderStatusCompleted) &&
			order.State == models.OrderStatePaid {
			order.State = models.OrderStateClosed
		}
		order.UpdatedAt = time.Now()
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel cancels an unpaid order. Paid orders go through Refund instead.
func (s *OrderService) Cancel(orderRef string, accountID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("ref = ? AND account_id = ?", orderRef, accountID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if order.State != models.OrderStateOngoing || models.IsTerminalStatus(order.Status) {
			return ErrOrderNotCancellable
		}

		order.Status = models.OrderStatusCancelled
		order.UpdatedAt = time.Now()
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Refund returns the full amount of a paid order to the owning wallet
// and marks the settlement state refunded. Only reachable from paid.
func (s *OrderService) Refund(orderID uint) (*models.Order, *models.WalletTransaction, error) {
	var (
		order models.Order
		txn   models.WalletTransaction
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if order.State != models.OrderStatePaid {
			return ErrOrderNotPaid
		}

		account, err := lockAccount(tx, order.AccountID)
		if err != nil {
			return err
		}
		if err := creditAccount(tx, account, order.TotalAmount); err != nil {
			return err
		}

		txn = models.WalletTransaction{
			AccountID:        account.ID,
			OrderID:          &order.ID,
			Type:             models.TransactionTypeRefund,
			Status:           models.TransactionStatusSuccess,
			Amount:           order.TotalAmount,
			ResultingBalance: account.WalletBalance,
			ReferenceID:      uuid.NewString(),
			Description:      "Refund for order " + order.Ref,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		order.State = models.OrderStateRefunded
		if !models.IsTerminalStatus(order.Status) {
			order.Status = models.OrderStatusCancelled
		}
		order.UpdatedAt = time.Now()
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &order, &txn, nil
}

// MarkFailed closes a paid order whose payment could not be honoured,
// e.g. a settlement disputed after the fact. No wallet credit is made;
// orders whose amount goes back to the wallet use Refund instead. Only
// reachable from paid.
func (s *OrderService) MarkFailed(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if order.State != models.OrderStatePaid {
			return ErrOrderNotPaid
		}

		order.State = models.OrderStateFailed
		if !models.IsTerminalStatus(order.Status) {
			order.Status = models.OrderStatusCancelled
		}
		order.UpdatedAt = time.Now()
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByRef returns an order (with items) by its opaque reference, the
// value carried in the order QR code.
func (s *OrderService) GetByRef(ref string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("ref = ?", ref).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID returns an order (with items) by its numeric ID.
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByAccount returns all orders placed by one account, newest first.
func (s *OrderService) ListByAccount(accountID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// ListActive returns the paid orders the baristas are working on,
// oldest first.
func (s *OrderService) ListActive() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("status IN ?", []string{models.OrderStatusPreparing, models.OrderStatusReady, models.OrderStatusOutForDelivery}).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}
