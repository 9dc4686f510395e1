package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/models"
)

// CartService keeps the per-account session carts in memory. Carts are
// ephemeral: they live until checkout or restart, the way the mobile app
// keeps them on the client. A RWMutex guards the map; line pricing is
// read from the catalog at insert time.
type CartService struct {
	db    *gorm.DB
	mu    sync.RWMutex
	carts map[uint]*models.Cart
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		db:    db,
		carts: make(map[uint]*models.Cart),
	}
}

// Get returns a snapshot of the account's cart.
func (s *CartService) Get(accountID uint) models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[accountID]
	if !ok {
		return models.Cart{}
	}
	snapshot := models.Cart{Lines: make([]models.CartLine, len(cart.Lines))}
	copy(snapshot.Lines, cart.Lines)
	return snapshot
}

// AddItem prices the requested product (with optional variant) from the
// catalog and merges it into the cart.
func (s *CartService) AddItem(accountID uint, productID uint, variantID *uint, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return models.Cart{}, ErrInvalidQuantity
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{}, ErrProductNotFound
		}
		return models.Cart{}, err
	}

	var variant *models.ProductVariant
	if variantID != nil {
		var v models.ProductVariant
		err := s.db.Where("id = ? AND product_id = ?", *variantID, productID).First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{}, ErrVariantNotFound
		}
		if err != nil {
			return models.Cart{}, err
		}
		variant = &v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[accountID]
	if !ok {
		cart = &models.Cart{}
		s.carts[accountID] = cart
	}
	cart.AddLine(models.CartLine{
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: product.Name,
		UnitPrice:   product.UnitPrice(variant),
		Quantity:    quantity,
	})
	return *cart, nil
}

// RemoveItem deletes one line from the cart.
func (s *CartService) RemoveItem(accountID uint, productID uint, variantID *uint) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[accountID]
	if !ok {
		return models.Cart{}
	}
	cart.RemoveLine(productID, variantID)
	return *cart
}

// Clear drops the account's cart, e.g. after checkout.
func (s *CartService) Clear(accountID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, accountID)
}

// CheckoutItems converts the cart into order item inputs. The cart is
// cleared by the caller only after the order has been created.
func (s *CartService) CheckoutItems(accountID uint) ([]OrderItemInput, error) {
	cart := s.Get(accountID)
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}
	items := make([]OrderItemInput, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, OrderItemInput{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}
