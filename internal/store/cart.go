package store

import (
	"log"

	"github.com/milovmv/larek/internal/events"
)

// Cart is a thin façade over the store's cart mutations. It enforces the
// single no-duplicate-line invariant at the boundary, logging rejected
// operations, and republishes cart:changed so subscribers see the same
// topic whether a mutation came through the coordinator or the store.
// Keeping the membership query and the duplicate policy here lets them be
// tested apart from storage.
type Cart struct {
	store *Store
	bus   *events.Bus
	logf  func(format string, args ...any)
}

// NewCart wraps store's cart operations.
func NewCart(store *Store, bus *events.Bus) *Cart {
	return &Cart{store: store, bus: bus, logf: log.Printf}
}

// SetLogger replaces the rejection logger.
func (c *Cart) SetLogger(logf func(format string, args ...any)) {
	if logf != nil {
		c.logf = logf
	}
}

// AddProduct adds p unless it is already in the cart. A rejected add
// publishes nothing: no mutation, no re-render.
func (c *Cart) AddProduct(p Product) {
	if c.IsInCart(p.ID) {
		c.logf("cart: product %q already in cart, add rejected", p.ID)
		return
	}
	if p.Priceless() {
		c.logf("cart: product %q is priceless, add rejected", p.ID)
		return
	}
	c.store.AddToCart(p)
	c.bus.Publish(events.TopicCartChanged, nil)
}

// RemoveProduct removes the product if present.
func (c *Cart) RemoveProduct(id string) {
	if !c.IsInCart(id) {
		c.logf("cart: product %q not in cart, remove rejected", id)
		return
	}
	c.store.RemoveFromCart(id)
	c.bus.Publish(events.TopicCartChanged, nil)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.store.ClearCart()
	c.bus.Publish(events.TopicCartChanged, nil)
}

// IsInCart reports cart membership for a product id.
func (c *Cart) IsInCart(id string) bool { return c.store.InCart(id) }

// ItemCount returns the number of cart lines.
func (c *Cart) ItemCount() int { return c.store.ItemCount() }

// ItemIDs returns the cart's product ids.
func (c *Cart) ItemIDs() []string { return c.store.ItemIDs() }

// Items returns the cart lines.
func (c *Cart) Items() []Product { return c.store.CartItems() }

// Total returns the cart total.
func (c *Cart) Total() int64 { return c.store.Total() }
