package service

import (
	"context"
	"log/slog"

	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/session"
)

// Catalog is the slice of the storefront API the cart needs: price and
// name lookups when a line is first added.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// CartView is the cart as rendered to clients, with delivery charge and
// grand total already applied.
type CartView struct {
	Items          []domain.LineItem `json:"items"`
	ItemCount      int               `json:"item_count"`
	SubtotalPaise  int64             `json:"subtotal_paise"`
	SurchargePaise int64             `json:"surcharge_paise"`
	TotalPaise     int64             `json:"total_paise"`
}

// CartService mutates the session-scoped cart. Every mutation persists
// the session before returning, so a crashed request never leaves the
// store and the client's view disagreeing.
type CartService interface {
	View(sess *session.Session) CartView
	AddItem(ctx context.Context, sess *session.Session, productID int64, quantity int) (CartView, error)
	SetQuantity(ctx context.Context, sess *session.Session, productID int64, quantity int) (CartView, error)
	RemoveItem(ctx context.Context, sess *session.Session, productID int64) (CartView, error)
	Clear(ctx context.Context, sess *session.Session) error
}

type cartService struct {
	catalog  Catalog
	sessions session.Store
	logger   *slog.Logger
}

func NewCartService(catalog Catalog, sessions session.Store, logger *slog.Logger) CartService {
	return &cartService{
		catalog:  catalog,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *cartService) View(sess *session.Session) CartView {
	return viewOf(sess.Cart)
}

func (s *cartService) AddItem(ctx context.Context, sess *session.Session, productID int64, quantity int) (CartView, error) {
	if quantity <= 0 {
		return CartView{}, &domain.Error{Code: domain.EINVALID, Message: "Quantity must be positive"}
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return CartView{}, err
	}

	sess.Cart = sess.Cart.AddItem(product.ID, product.Name, product.PricePaise(), quantity)

	if err := s.sessions.Save(ctx, sess); err != nil {
		return CartView{}, err
	}
	return viewOf(sess.Cart), nil
}

func (s *cartService) SetQuantity(ctx context.Context, sess *session.Session, productID int64, quantity int) (CartView, error) {
	sess.Cart = sess.Cart.SetQuantity(productID, quantity)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return CartView{}, err
	}
	return viewOf(sess.Cart), nil
}

func (s *cartService) RemoveItem(ctx context.Context, sess *session.Session, productID int64) (CartView, error) {
	sess.Cart = sess.Cart.RemoveItem(productID)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return CartView{}, err
	}
	return viewOf(sess.Cart), nil
}

func (s *cartService) Clear(ctx context.Context, sess *session.Session) error {
	sess.Cart = domain.Cart{}
	return s.sessions.Save(ctx, sess)
}

func viewOf(cart domain.Cart) CartView {
	subtotal := cart.Subtotal()
	surcharge := DeliverySurcharge(subtotal)
	return CartView{
		Items:          cart.Items,
		ItemCount:      cart.Count(),
		SubtotalPaise:  subtotal,
		SurchargePaise: surcharge,
		TotalPaise:     subtotal + surcharge,
	}
}
