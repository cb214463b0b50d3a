// Package wizard contains the orchestration core: the presenter that
// subscribes to every domain topic, drives view rendering, tracks the active
// checkout step, and sequences the two-step wizard through to order
// submission. All state transitions happen inside synchronous bus handlers.
package wizard

import (
	"context"
	"errors"
	"log"

	"github.com/milovmv/larek/internal/events"
	"github.com/milovmv/larek/internal/store"
)

// Button and alert copy used by the view-data builders.
const (
	labelAdd       = "Add to cart"
	labelRemove    = "Remove from cart"
	labelPriceless = "Priceless"
	labelCheckout  = "Checkout"
	labelEmptyCart = "Cart is empty"

	alertEmptyCart    = "Cannot checkout an empty cart."
	alertSubmitFailed = "Could not place the order. Please try again."
)

// CardSelect accompanies card:select.
type CardSelect struct {
	ID string
}

// ProductRemove accompanies product:remove.
type ProductRemove struct {
	ID string
}

// FieldChange accompanies form:field:changed and contacts:field:changed.
type FieldChange struct {
	Field store.Field
	Value string
}

// PaymentChange accompanies payment:changed.
type PaymentChange struct {
	Method store.PaymentMethod
}

// Presenter wires the store, the cart coordinator, and the views together
// over the bus. It owns exactly two pieces of state of its own: the active
// wizard step and the submit latch.
type Presenter struct {
	bus   *events.Bus
	store *store.Store
	cart  *store.Cart
	view  Renderer
	sub   Submitter

	activeStep store.Step
	submitting bool
	logf       func(format string, args ...any)
}

// New builds a presenter. Every collaborator is required: refusing to
// construct beats silently driving a missing view.
func New(bus *events.Bus, st *store.Store, cart *store.Cart, view Renderer, sub Submitter) (*Presenter, error) {
	if bus == nil || st == nil || cart == nil || view == nil || sub == nil {
		return nil, errors.New("wizard: all collaborators must be non-nil")
	}
	return &Presenter{
		bus:        bus,
		store:      st,
		cart:       cart,
		view:       view,
		sub:        sub,
		activeStep: store.StepNone,
		logf:       log.Printf,
	}, nil
}

// SetLogger replaces the presenter logger.
func (p *Presenter) SetLogger(logf func(format string, args ...any)) {
	if logf != nil {
		p.logf = logf
	}
}

// ActiveStep returns the step currently routing validation results.
func (p *Presenter) ActiveStep() store.Step { return p.activeStep }

// Submitting reports whether an order request is in flight.
func (p *Presenter) Submitting() bool { return p.submitting }

// Bind registers every subscription. Call once after construction.
func (p *Presenter) Bind() {
	p.bus.Subscribe(events.TopicItemsChanged, func(any) { p.renderCatalog() })
	p.bus.Subscribe(events.TopicCardSelect, p.onCardSelect)
	p.bus.Subscribe(events.TopicBasketOpen, func(any) { p.renderBasket() })
	p.bus.Subscribe(events.TopicProductAdd, p.onProductAdd)
	p.bus.Subscribe(events.TopicProductRemove, p.onProductRemove)
	p.bus.Subscribe(events.TopicCartChanged, func(any) {
		p.renderBasket()
		p.renderCatalog()
	})
	p.bus.Subscribe(events.TopicOrderOpen, func(any) { p.onOrderOpen() })
	p.bus.Subscribe(events.TopicFormFieldChanged, p.onFieldChange)
	p.bus.Subscribe(events.TopicPaymentChanged, p.onPaymentChange)
	p.bus.Subscribe(events.TopicOrderSubmit, func(any) { p.onOrderSubmit() })
	p.bus.Subscribe(events.TopicContactsField, p.onFieldChange)
	p.bus.Subscribe(events.TopicContactsSubmit, func(any) { p.onContactsSubmit() })
	p.bus.Subscribe(events.TopicOrderValidity, p.onValidityChanged)
	p.bus.Subscribe(events.TopicModalOpen, func(any) { p.view.SetPageLocked(true) })
	p.bus.Subscribe(events.TopicModalClose, func(any) { p.onModalClose() })
	p.bus.Subscribe(events.TopicSuccessClose, func(any) { p.view.CloseModal() })
}

// Load fetches the catalog from src and populates the store. On failure the
// error is logged and the catalog stays empty; the app keeps running.
func (p *Presenter) Load(ctx context.Context, src CatalogSource) {
	items, err := src.GetProducts(ctx)
	p.CatalogLoaded(items, err)
}

// CatalogLoaded delivers the outcome of an asynchronous catalog fetch.
func (p *Presenter) CatalogLoaded(items []store.Product, err error) {
	if err != nil {
		p.logf("wizard: catalog fetch failed: %v", err)
		return
	}
	p.store.SetCatalog(items)
}

// OrderCompleted delivers the outcome of a submitted order. On failure the
// cart and the form are untouched and the contacts step stays active for a
// retry; on success the cart is cleared and the success view is shown.
func (p *Presenter) OrderCompleted(res OrderResult, err error) {
	p.submitting = false
	if err != nil {
		p.logf("wizard: order submit failed: %v", err)
		p.view.ShowAlert(alertSubmitFailed)
		p.renderContacts()
		return
	}
	p.view.RenderSuccess(SuccessData{OrderID: res.ID, Total: res.Total})
	p.cart.Clear()
	p.store.ResetOrder()
	p.view.RenderCounter(0)
	p.renderCatalog()
	p.activeStep = store.StepNone
}

// --- topic handlers ---

func (p *Presenter) onCardSelect(payload any) {
	sel, ok := payload.(CardSelect)
	if !ok {
		p.logf("wizard: card:select with unexpected payload %T", payload)
		return
	}
	product, ok := p.store.Product(sel.ID)
	if !ok {
		p.logf("wizard: card:select for unknown product %q", sel.ID)
		return
	}
	p.store.SetPreview(product.ID)
	p.view.RenderPreview(p.cardData(product, true))
}

func (p *Presenter) onProductAdd(payload any) {
	product, ok := payload.(store.Product)
	if !ok {
		p.logf("wizard: product:add with unexpected payload %T", payload)
		return
	}
	p.cart.AddProduct(product)
	p.view.CloseModal()
	p.view.RenderCounter(p.cart.ItemCount())
	p.renderCatalog()
}

func (p *Presenter) onProductRemove(payload any) {
	rm, ok := payload.(ProductRemove)
	if !ok {
		p.logf("wizard: product:remove with unexpected payload %T", payload)
		return
	}
	p.cart.RemoveProduct(rm.ID)
	p.view.RenderCounter(p.cart.ItemCount())
	p.renderBasket()
	p.renderCatalog()

	// A preview of the removed product must flip its button back to "add";
	// if the product vanished from the catalog, close the modal instead.
	if p.store.Preview() == rm.ID {
		if _, ok := p.store.Product(rm.ID); ok {
			p.bus.Publish(events.TopicCardSelect, CardSelect{ID: rm.ID})
		} else {
			p.view.CloseModal()
		}
	}
}

func (p *Presenter) onOrderOpen() {
	if p.cart.ItemCount() == 0 {
		p.logf("wizard: order:open with empty cart")
		p.view.ShowAlert(alertEmptyCart)
		p.view.CloseModal()
		return
	}
	p.store.ResetOrder()
	// The active step must be set before validation so the validity result
	// routes to the address form.
	p.activeStep = store.StepAddress
	p.store.Validate(store.StepAddress)
	p.renderAddress()
}

func (p *Presenter) onFieldChange(payload any) {
	fc, ok := payload.(FieldChange)
	if !ok {
		p.logf("wizard: field change with unexpected payload %T", payload)
		return
	}
	p.store.SetOrderField(fc.Field, fc.Value)
	p.validateActiveStep()
}

func (p *Presenter) onPaymentChange(payload any) {
	pc, ok := payload.(PaymentChange)
	if !ok {
		p.logf("wizard: payment:changed with unexpected payload %T", payload)
		return
	}
	p.store.SetOrderField(store.FieldPayment, string(pc.Method))
	p.validateActiveStep()
}

func (p *Presenter) onOrderSubmit() {
	if !p.store.Validate(store.StepAddress) {
		return
	}
	p.activeStep = store.StepContacts
	p.renderContacts()
	p.store.Validate(store.StepContacts)
}

func (p *Presenter) onContactsSubmit() {
	if p.submitting {
		return
	}
	if !p.store.Validate(store.StepContacts) {
		return
	}
	p.submitting = true
	p.renderContacts()
	order := p.store.Order()
	p.sub.Submit(OrderPayload{
		Payment: order.Payment,
		Address: order.Address,
		Email:   order.Email,
		Phone:   order.Phone,
		Items:   p.cart.ItemIDs(),
		Total:   p.cart.Total(),
	})
}

// onValidityChanged routes a validation result to the view of the presenter's
// own active step. A payload tagged with any other step is stale (the step
// advanced or the wizard closed before the result arrived) and is dropped
// rather than applied to the wrong form.
func (p *Presenter) onValidityChanged(payload any) {
	vc, ok := payload.(store.ValidityChanged)
	if !ok {
		p.logf("wizard: validity change with unexpected payload %T", payload)
		return
	}
	if vc.Step != p.activeStep || p.activeStep == store.StepNone {
		p.logf("wizard: dropping %s validity result, active step is %q", vc.Step, p.activeStep)
		return
	}
	order := p.store.Order()
	switch p.activeStep {
	case store.StepAddress:
		p.view.RenderAddress(AddressData{
			Address: order.Address,
			Payment: order.Payment,
			Valid:   vc.IsValid,
			Errors:  vc.Errors,
		})
	case store.StepContacts:
		p.view.RenderContacts(ContactsData{
			Email:      order.Email,
			Phone:      order.Phone,
			Valid:      vc.IsValid,
			Errors:     vc.Errors,
			Submitting: p.submitting,
		})
	}
}

func (p *Presenter) onModalClose() {
	p.view.SetPageLocked(false)
	p.store.SetPreview("")
	p.store.ResetOrder()
	p.activeStep = store.StepNone
}

// --- rendering ---

func (p *Presenter) validateActiveStep() {
	if p.activeStep == store.StepNone {
		p.logf("wizard: field change with no active step")
		return
	}
	p.store.Validate(p.activeStep)
}

func (p *Presenter) cardData(product store.Product, withDescription bool) CardData {
	card := CardData{
		ID:       product.ID,
		Title:    product.Title,
		Category: product.Category,
		Price:    product.Price,
		ImageURL: product.ImageURL,
		InCart:   p.cart.IsInCart(product.ID),
	}
	if withDescription {
		card.Description = product.Description
	}
	switch {
	case product.Priceless():
		card.ButtonText = labelPriceless
		card.ButtonDisabled = true
	case card.InCart:
		card.ButtonText = labelRemove
	default:
		card.ButtonText = labelAdd
	}
	return card
}

// renderCatalog rebuilds every card so button labels reflect cart
// membership. Full re-render per mutation: O(catalog+cart), fine at
// storefront scale.
func (p *Presenter) renderCatalog() {
	catalog := p.store.Catalog()
	cards := make([]CardData, 0, len(catalog))
	for _, product := range catalog {
		cards = append(cards, p.cardData(product, false))
	}
	p.view.RenderCatalog(cards)
}

func (p *Presenter) renderBasket() {
	items := p.cart.Items()
	lines := make([]BasketLine, 0, len(items))
	for i, item := range items {
		lines = append(lines, BasketLine{Index: i + 1, ID: item.ID, Title: item.Title, Price: item.Price})
	}
	data := BasketData{Items: lines, Total: p.cart.Total()}
	if len(lines) == 0 {
		data.ButtonText = labelEmptyCart
		data.ButtonDisabled = true
	} else {
		data.ButtonText = labelCheckout
	}
	p.view.RenderBasket(data)
}

func (p *Presenter) renderAddress() {
	order := p.store.Order()
	errs := p.store.Errors()
	p.view.RenderAddress(AddressData{
		Address: order.Address,
		Payment: order.Payment,
		Valid:   len(errs) == 0,
		Errors:  errs,
	})
}

func (p *Presenter) renderContacts() {
	order := p.store.Order()
	errs := p.store.Errors()
	p.view.RenderContacts(ContactsData{
		Email:      order.Email,
		Phone:      order.Phone,
		Valid:      len(errs) == 0,
		Errors:     errs,
		Submitting: p.submitting,
	})
}
