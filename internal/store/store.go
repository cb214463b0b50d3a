// Package store owns every piece of mutable application state: the catalog,
// the cart, the in-progress order form, the preview selection, and the
// current validation errors. All mutation goes through Store methods, and
// each mutating method publishes exactly one change topic on the bus, which
// is what keeps the views in the single input -> mutation -> notification ->
// render loop.
package store

import (
	"regexp"
	"strings"

	"github.com/milovmv/larek/internal/events"
)

var (
	emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)
	phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)
)

const minAddressLen = 5

// Store is the single holder of application state. It is not safe for
// concurrent use; all mutation happens inside synchronous bus handlers on
// the UI loop.
type Store struct {
	bus     *events.Bus
	catalog []Product
	cart    []Product
	order   OrderForm
	preview string
	errors  FormErrors
}

// New returns an empty store publishing change topics on bus.
func New(bus *events.Bus) *Store {
	return &Store{
		bus:    bus,
		order:  defaultOrder(),
		errors: FormErrors{},
	}
}

func defaultOrder() OrderForm {
	return OrderForm{Payment: PaymentCard}
}

// --- catalog ---

// SetCatalog replaces the catalog and publishes items:changed.
func (s *Store) SetCatalog(items []Product) {
	s.catalog = items
	s.bus.Publish(events.TopicItemsChanged, ItemsChanged{Items: s.catalog})
}

// Catalog returns the loaded catalog.
func (s *Store) Catalog() []Product { return s.catalog }

// Product looks a product up by id.
func (s *Store) Product(id string) (Product, bool) {
	for _, p := range s.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// --- preview ---

// SetPreview records the previewed product id ("" clears it) and publishes
// preview:changed.
func (s *Store) SetPreview(id string) {
	s.preview = id
	s.bus.Publish(events.TopicPreviewChanged, PreviewChanged{ID: id})
}

// Preview returns the previewed product id, or "" if none.
func (s *Store) Preview() string { return s.preview }

// --- cart ---

// AddToCart appends the product unless its id is already present or the
// product is priceless. Publishes cart:changed only when the cart changed.
func (s *Store) AddToCart(p Product) {
	if p.Priceless() || s.InCart(p.ID) {
		return
	}
	s.cart = append(s.cart, p)
	s.bus.Publish(events.TopicCartChanged, nil)
}

// RemoveFromCart removes the product if present. Absent ids are a no-op and
// publish nothing, so a double remove is safe.
func (s *Store) RemoveFromCart(id string) {
	for i, p := range s.cart {
		if p.ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			s.bus.Publish(events.TopicCartChanged, nil)
			return
		}
	}
}

// ClearCart empties the cart and publishes cart:changed.
func (s *Store) ClearCart() {
	s.cart = nil
	s.bus.Publish(events.TopicCartChanged, nil)
}

// InCart reports whether a product id is in the cart.
func (s *Store) InCart(id string) bool {
	for _, p := range s.cart {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CartItems returns the cart lines in insertion order.
func (s *Store) CartItems() []Product { return s.cart }

// ItemCount returns the number of cart lines.
func (s *Store) ItemCount() int { return len(s.cart) }

// ItemIDs returns the cart's product ids. Derived on demand; this is what
// goes out as the order's items.
func (s *Store) ItemIDs() []string {
	ids := make([]string, 0, len(s.cart))
	for _, p := range s.cart {
		ids = append(ids, p.ID)
	}
	return ids
}

// Total returns the sum of cart line prices. A priceless product can never
// enter the cart, but a nil price is still counted as zero rather than
// dereferenced.
func (s *Store) Total() int64 {
	var total int64
	for _, p := range s.cart {
		if p.Price != nil {
			total += *p.Price
		}
	}
	return total
}

// --- order form ---

// SetOrderField sets one editable field. It neither validates nor
// publishes: the presenter triggers validation explicitly so several edits
// in one UI tick cost one validation pass.
func (s *Store) SetOrderField(field Field, value string) {
	switch field {
	case FieldPayment:
		s.order.Payment = PaymentMethod(value)
	case FieldAddress:
		s.order.Address = value
	case FieldEmail:
		s.order.Email = value
	case FieldPhone:
		s.order.Phone = value
	}
}

// Order returns a copy of the current form fields.
func (s *Store) Order() OrderForm { return s.order }

// Errors returns the current validation error map.
func (s *Store) Errors() FormErrors { return s.errors }

// Validate recomputes the error map using only the fields of step, replacing
// the whole map (the other step's errors are discarded, not merged: switching
// steps clears the other step's error display). It publishes
// formErrors:changed followed by orderForm:validity:changed, and returns
// whether step's own fields are error-free.
func (s *Store) Validate(step Step) bool {
	errs := FormErrors{}

	switch step {
	case StepAddress:
		if s.order.Payment == "" {
			errs[string(FieldPayment)] = "select a payment method"
		}
		addr := strings.TrimSpace(s.order.Address)
		if addr == "" {
			errs[string(FieldAddress)] = "shipping address is required"
		} else if len([]rune(addr)) < minAddressLen {
			errs[string(FieldAddress)] = "address must be at least 5 characters"
		}
	case StepContacts:
		email := strings.TrimSpace(s.order.Email)
		if email == "" {
			errs[string(FieldEmail)] = "email is required"
		} else if !emailPattern.MatchString(email) {
			errs[string(FieldEmail)] = "invalid email address"
		}
		phone := strings.TrimSpace(s.order.Phone)
		if phone == "" {
			errs[string(FieldPhone)] = "phone number is required"
		} else if !phonePattern.MatchString(phone) {
			errs[string(FieldPhone)] = "invalid phone number"
		}
	}

	s.errors = errs
	isValid := len(errs) == 0
	s.bus.Publish(events.TopicFormErrors, errs)
	s.bus.Publish(events.TopicOrderValidity, ValidityChanged{Step: step, IsValid: isValid, Errors: errs})
	return isValid
}

// ResetOrder restores the form to defaults and clears errors. No topic is
// published; the caller re-renders explicitly.
func (s *Store) ResetOrder() {
	s.order = defaultOrder()
	s.errors = FormErrors{}
}

// ClearAll empties the cart, resets the order, and clears the preview. Used
// when the wizard is abandoned mid-flow.
func (s *Store) ClearAll() {
	s.ClearCart()
	s.ResetOrder()
	s.preview = ""
}
