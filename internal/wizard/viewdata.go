package wizard

import (
	"context"

	"github.com/milovmv/larek/internal/store"
)

// View-data types handed to the renderer. Views are write-only sinks: they
// receive plain data and return nothing.

// CardData describes one product card (catalog cell, preview, basket line).
type CardData struct {
	ID             string
	Title          string
	Description    string
	Category       string
	Price          *int64
	ImageURL       string
	InCart         bool
	ButtonText     string
	ButtonDisabled bool
}

// BasketLine is one row of the basket view.
type BasketLine struct {
	Index int
	ID    string
	Title string
	Price *int64
}

// BasketData describes the basket view.
type BasketData struct {
	Items          []BasketLine
	Total          int64
	ButtonText     string
	ButtonDisabled bool
}

// AddressData describes the address step form.
type AddressData struct {
	Address string
	Payment store.PaymentMethod
	Valid   bool
	Errors  store.FormErrors
}

// ContactsData describes the contacts step form. Submitting disables the
// submit control while an order request is in flight.
type ContactsData struct {
	Email      string
	Phone      string
	Valid      bool
	Errors     store.FormErrors
	Submitting bool
}

// SuccessData describes the order confirmation view. Total is the amount
// the server charged, not the local cart total.
type SuccessData struct {
	OrderID string
	Total   int64
}

// Renderer is the write-only view surface the presenter drives. The TUI
// implements it; tests implement it with a recorder.
type Renderer interface {
	RenderCatalog(cards []CardData)
	RenderCounter(count int)
	RenderPreview(card CardData)
	RenderBasket(data BasketData)
	RenderAddress(data AddressData)
	RenderContacts(data ContactsData)
	RenderSuccess(data SuccessData)
	ShowAlert(msg string)
	CloseModal()
	SetPageLocked(locked bool)
}

// OrderPayload is the order as submitted to the gateway. Items and Total are
// read from the cart at submit time.
type OrderPayload struct {
	Payment store.PaymentMethod
	Address string
	Email   string
	Phone   string
	Items   []string
	Total   int64
}

// OrderResult is the gateway's acknowledgement of a placed order.
type OrderResult struct {
	ID    string
	Total int64
}

// CatalogSource fetches the product catalog.
type CatalogSource interface {
	GetProducts(ctx context.Context) ([]store.Product, error)
}

// OrderGateway places an order.
type OrderGateway interface {
	PostOrder(ctx context.Context, order OrderPayload) (OrderResult, error)
}

// Submitter starts an order request without blocking the dispatch loop. The
// composition root decides how: the TUI queues a command and delivers the
// outcome back through Presenter.OrderCompleted; headless harnesses call the
// gateway inline.
type Submitter interface {
	Submit(order OrderPayload)
}
