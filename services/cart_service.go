package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/siravitrin-eng/the-pos-67079349/models"
)

// TaxRate is the flat storefront rate. Not configurable.
const TaxRate = 0.07

// Confirmer abstracts the yes/no prompt guarding destructive cart
// actions. Declining leaves the cart untouched.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// CartStore persists session carts.
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

// ProductSource resolves a product against the current projection.
type ProductSource interface {
	ProductByID(id string) (*models.Product, bool)
}

// CartService is the session cart ledger. Lines keep first-added order;
// quantities floor at zero, removing the line.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*models.CartSummary, *ServiceError)
	Add(ctx context.Context, sessionID, productID string) (*models.CartSummary, *ServiceError)
	UpdateQuantity(ctx context.Context, sessionID, productID string, delta int) (*models.CartSummary, *ServiceError)
	Clear(ctx context.Context, sessionID string, confirm Confirmer) (bool, *ServiceError)
	Checkout(ctx context.Context, sessionID string) (*models.CartSummary, *ServiceError)
}

type cartServiceImpl struct {
	store    CartStore
	products ProductSource
	logger   *zap.Logger
}

func NewCartService(store CartStore, products ProductSource, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		store:    store,
		products: products,
		logger:   logger,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, sessionID string) (*models.CartSummary, *ServiceError) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return Summarize(cart.Lines), nil
}

// Add appends a new line with quantity 1, or increments the existing
// line for the same product.
func (s *cartServiceImpl) Add(ctx context.Context, sessionID, productID string) (*models.CartSummary, *ServiceError) {
	product, ok := s.products.ProductByID(productID)
	if !ok {
		return nil, NewNotFoundError("Product not found")
	}

	cart, svcErr := s.load(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	cart.Lines = AddLine(cart.Lines, *product)

	if err := s.store.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, NewOperationFailedError("Failed to save cart", err)
	}
	return Summarize(cart.Lines), nil
}

// UpdateQuantity applies a delta, flooring at zero (the line is removed).
// Unknown product ids are a no-op.
func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, sessionID, productID string, delta int) (*models.CartSummary, *ServiceError) {
	cart, svcErr := s.load(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	cart.Lines = ApplyDelta(cart.Lines, productID, delta)

	if err := s.store.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err))
		return nil, NewOperationFailedError("Failed to save cart", err)
	}
	return Summarize(cart.Lines), nil
}

// Clear discards the cart after the confirmation prompt. Returns false
// with no side effect when the prompt is declined.
func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string, confirm Confirmer) (bool, *ServiceError) {
	if !confirm.Confirm("Clear the cart?") {
		return false, nil
	}

	if err := s.store.DeleteCart(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart", zap.Error(err))
		return false, NewOperationFailedError("Failed to clear cart", err)
	}
	return true, nil
}

// Checkout returns the finalize-transaction summary. This is a display
// boundary: there is no settlement behind it and no side effects occur.
func (s *cartServiceImpl) Checkout(ctx context.Context, sessionID string) (*models.CartSummary, *ServiceError) {
	cart, svcErr := s.load(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if len(cart.Lines) == 0 {
		return nil, NewValidationError("Cart is empty")
	}
	return Summarize(cart.Lines), nil
}

func (s *cartServiceImpl) load(ctx context.Context, sessionID string) (*models.Cart, *ServiceError) {
	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, NewOperationFailedError("Failed to load cart", err)
	}
	if cart == nil {
		cart = &models.Cart{SessionID: sessionID, Lines: []models.CartLine{}}
	}
	return cart, nil
}

// AddLine increments the matching line or appends a fresh one with
// quantity 1, preserving first-added order.
func AddLine(lines []models.CartLine, product models.Product) []models.CartLine {
	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity++
			return lines
		}
	}
	return append(lines, models.CartLine{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Unit:      product.Unit,
		Image:     product.Image,
		Quantity:  1,
	})
}

// ApplyDelta adjusts a line's quantity by delta with a floor of zero;
// at zero the line is dropped. A miss is a no-op.
func ApplyDelta(lines []models.CartLine, productID string, delta int) []models.CartLine {
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID == productID {
			newQty := line.Quantity + delta
			if newQty < 0 {
				newQty = 0
			}
			if newQty == 0 {
				continue
			}
			line.Quantity = newQty
		}
		out = append(out, line)
	}
	return out
}

// Summarize derives subtotal, tax, and total with full precision; any
// rounding is left to the render layer.
func Summarize(lines []models.CartLine) *models.CartSummary {
	if lines == nil {
		lines = []models.CartLine{}
	}
	subtotal := 0.0
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	tax := subtotal * TaxRate
	return &models.CartSummary{
		Lines:    lines,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
