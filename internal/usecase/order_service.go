package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/priceai/backend/internal/domain"
)

// OrderService turns a cart into an order at checkout and serves order
// history. Totals use sum-mode price parsing: an unparseable line item
// contributes zero instead of failing or poisoning the total.
type OrderService struct {
	store domain.UserStore
	now   func() time.Time

	mu  sync.Mutex // rand.Rand is not goroutine-safe
	rng *rand.Rand
}

// NewOrderService creates an order service. now and seed exist so tests
// can pin time and order ids; pass zero values for production defaults.
func NewOrderService(store domain.UserStore, now func() time.Time, seed int64) *OrderService {
	if now == nil {
		now = time.Now
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &OrderService{
		store: store,
		now:   now,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Checkout creates an order from the user's current cart, appends it to
// the order history, and clears the cart wholesale. The cart must be
// non-empty and the payment method one of card/upi/cod.
func (s *OrderService) Checkout(ctx context.Context, user *domain.User, method string) (*domain.Order, error) {
	if user == nil {
		return nil, domain.ErrAuthRequired
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidRequest, method)
	}

	doc, err := s.store.GetDocument(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(doc.Cart) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var total float64
	items := make([]domain.OrderItem, 0, len(doc.Cart))
	for _, rec := range doc.Cart {
		total += ParsePriceForSum(rec.Price)
		items = append(items, domain.OrderItem{
			Name:   rec.Name,
			Source: rec.Source,
			Price:  rec.DisplayPrice,
			Image:  rec.Image,
		})
		if items[len(items)-1].Price == "" {
			items[len(items)-1].Price = rec.Price
		}
	}

	order := domain.Order{
		ID:     s.nextOrderID(),
		Date:   s.now().UTC(),
		Total:  total,
		Method: method,
		Items:  items,
	}

	// One atomic write: either the order lands and the cart is gone, or
	// neither happened and the checkout can be retried.
	if err := s.store.CompleteCheckout(ctx, user.ID, order); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	return &order, nil
}

// nextOrderID draws a 6-digit order id.
func (s *OrderService) nextOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%06d", 100000+s.rng.Intn(900000))
}

// History returns the user's orders, newest first.
func (s *OrderService) History(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	if user == nil {
		return nil, domain.ErrAuthRequired
	}

	doc, err := s.store.GetDocument(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, len(doc.Orders))
	copy(orders, doc.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	return orders, nil
}

// Invoice renders a plain-text invoice for one order in the user's
// history. Deterministic over the order data; styling is somebody
// else's problem.
func (s *OrderService) Invoice(ctx context.Context, user *domain.User, orderID string) (string, error) {
	if user == nil {
		return "", domain.ErrAuthRequired
	}

	doc, err := s.store.GetDocument(ctx, user.ID)
	if err != nil {
		return "", err
	}

	for _, order := range doc.Orders {
		if order.ID == orderID {
			return renderInvoice(doc.Name, order), nil
		}
	}
	return "", domain.ErrOrderNotFound
}

func renderInvoice(customer string, order domain.Order) string {
	if customer == "" {
		customer = "Valued Customer"
	}

	var b strings.Builder
	b.WriteString("PriceAI Invoice\n")
	fmt.Fprintf(&b, "Order ID: #%s\n", order.ID)
	fmt.Fprintf(&b, "Date: %s\n", order.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Customer: %s\n", customer)
	fmt.Fprintf(&b, "Payment: %s\n\n", strings.ToUpper(order.Method))

	b.WriteString("Item\tStore\tPrice\n")
	for _, it := range order.Items {
		name := it.Name
		if runes := []rune(name); len(runes) > 30 {
			name = string(runes[:30]) + "..."
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", name, it.Source, it.Price)
	}
	fmt.Fprintf(&b, "\nTOTAL\tRs. %.2f\n", order.Total)
	b.WriteString("\nThank you for shopping with PriceAI!\n")
	b.WriteString("This is a computer-generated invoice.\n")
	return b.String()
}
