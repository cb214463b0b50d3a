// Package tui renders the storefront as a terminal app. The App is both the
// bubbletea model and the view surface the wizard presenter drives: user keys
// become bus events, presenter render calls become model state, and View
// draws whatever state is current.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/milovmv/larek/internal/config"
	"github.com/milovmv/larek/internal/events"
	"github.com/milovmv/larek/internal/store"
	"github.com/milovmv/larek/internal/wizard"
)

// App ties the bus, the store, and the gateway to the terminal.
type App struct {
	ctx       context.Context
	bus       *events.Bus
	st        *store.Store
	src       wizard.CatalogSource
	gw        wizard.OrderGateway
	presenter *wizard.Presenter
	currency  string

	width  int
	height int

	catalog []wizard.CardData
	counter int
	cursor  int

	searching bool
	query     string

	modal         modalState
	preview       wizard.CardData
	basket        wizard.BasketData
	basketCursor  int
	address       wizard.AddressData
	contacts      wizard.ContactsData
	contactsFocus contactsField
	success       wizard.SuccessData

	pageLocked bool
	status     string

	pendingSubmit *wizard.OrderPayload
}

type modalState string

const (
	modalNone     modalState = ""
	modalPreview  modalState = "preview"
	modalBasket   modalState = "basket"
	modalAddress  modalState = "address"
	modalContacts modalState = "contacts"
	modalSuccess  modalState = "success"
)

type contactsField string

const (
	focusEmail contactsField = "email"
	focusPhone contactsField = "phone"
)

func New(ctx context.Context, cfg config.Config, bus *events.Bus, st *store.Store, src wizard.CatalogSource, gw wizard.OrderGateway) *App {
	return &App{
		ctx:           ctx,
		bus:           bus,
		st:            st,
		src:           src,
		gw:            gw,
		currency:      cfg.UI.CurrencySymbol,
		contactsFocus: focusEmail,
	}
}

// SetPresenter hands the app its presenter. Construction is circular (the
// presenter needs the app as its renderer) so the pointer arrives after both
// exist.
func (a *App) SetPresenter(p *wizard.Presenter) {
	a.presenter = p
}

func (a *App) Init() tea.Cmd {
	return a.loadCatalog()
}

func (a *App) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		items, err := a.src.GetProducts(a.ctx)
		return catalogMsg{items: items, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		return a.handleKey(m)
	case catalogMsg:
		if m.err != nil {
			a.status = "catalog load failed: " + m.err.Error()
		}
		a.presenter.CatalogLoaded(m.items, m.err)
	case orderDoneMsg:
		a.presenter.OrderCompleted(m.res, m.err)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch a.modal {
	case modalNone:
		return a.handleCatalogKey(m)
	case modalPreview:
		a.handlePreviewKey(m)
	case modalBasket:
		a.handleBasketKey(m)
	case modalAddress:
		a.handleAddressKey(m)
	case modalContacts:
		a.handleContactsKey(m)
	case modalSuccess:
		a.handleSuccessKey(m)
	}
	return a, a.drainSubmit()
}

func (a *App) handleCatalogKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch m.Type {
		case tea.KeyEsc:
			a.searching = false
			a.query = ""
			a.cursor = 0
		case tea.KeyEnter:
			a.searching = false
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.query) > 0 {
				a.query = a.query[:len(a.query)-1]
				a.cursor = 0
			}
		case tea.KeySpace:
			a.query += " "
			a.cursor = 0
		case tea.KeyRunes:
			a.query += string(m.Runes)
			a.cursor = 0
		}
		return a, nil
	}
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "/":
		a.searching = true
		a.query = ""
		a.cursor = 0
	case "esc":
		a.query = ""
		a.cursor = 0
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.visibleCatalog())-1 {
			a.cursor++
		}
	case "enter":
		visible := a.visibleCatalog()
		if len(visible) == 0 {
			return a, nil
		}
		a.bus.Publish(events.TopicCardSelect, wizard.CardSelect{ID: visible[a.cursor].ID})
	case "b":
		a.openModal(modalBasket)
		a.bus.Publish(events.TopicBasketOpen, nil)
	}
	return a, a.drainSubmit()
}

func (a *App) handlePreviewKey(m tea.KeyMsg) {
	switch m.String() {
	case "esc":
		a.CloseModal()
	case "enter", "a":
		card := a.preview
		if card.ButtonDisabled {
			return
		}
		if card.InCart {
			a.bus.Publish(events.TopicProductRemove, wizard.ProductRemove{ID: card.ID})
			return
		}
		product, ok := a.st.Product(card.ID)
		if !ok {
			return
		}
		a.bus.Publish(events.TopicProductAdd, product)
	case "b":
		a.openModal(modalBasket)
		a.bus.Publish(events.TopicBasketOpen, nil)
	}
}

func (a *App) handleBasketKey(m tea.KeyMsg) {
	switch m.String() {
	case "esc":
		a.CloseModal()
	case "up", "k":
		if a.basketCursor > 0 {
			a.basketCursor--
		}
	case "down", "j":
		if a.basketCursor < len(a.basket.Items)-1 {
			a.basketCursor++
		}
	case "x", "backspace", "delete":
		if len(a.basket.Items) == 0 {
			return
		}
		id := a.basket.Items[a.basketCursor].ID
		a.bus.Publish(events.TopicProductRemove, wizard.ProductRemove{ID: id})
	case "enter":
		a.bus.Publish(events.TopicOrderOpen, nil)
	}
}

func (a *App) handleAddressKey(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc:
		a.CloseModal()
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		method := store.PaymentCard
		if a.address.Payment == store.PaymentCard {
			method = store.PaymentCash
		}
		a.bus.Publish(events.TopicPaymentChanged, wizard.PaymentChange{Method: method})
	case tea.KeyEnter:
		a.bus.Publish(events.TopicOrderSubmit, nil)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.address.Address) > 0 {
			a.publishAddress(a.address.Address[:len(a.address.Address)-1])
		}
	case tea.KeySpace:
		a.publishAddress(a.address.Address + " ")
	case tea.KeyRunes:
		a.publishAddress(a.address.Address + string(m.Runes))
	}
}

func (a *App) publishAddress(value string) {
	a.bus.Publish(events.TopicFormFieldChanged, wizard.FieldChange{Field: store.FieldAddress, Value: value})
}

func (a *App) handleContactsKey(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc:
		a.CloseModal()
		return
	case tea.KeyTab, tea.KeyUp, tea.KeyDown:
		if a.contactsFocus == focusEmail {
			a.contactsFocus = focusPhone
		} else {
			a.contactsFocus = focusEmail
		}
		return
	case tea.KeyEnter:
		if a.contacts.Submitting {
			return
		}
		a.bus.Publish(events.TopicContactsSubmit, nil)
		return
	}

	field, value := store.FieldEmail, a.contacts.Email
	if a.contactsFocus == focusPhone {
		field, value = store.FieldPhone, a.contacts.Phone
	}
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(value) == 0 {
			return
		}
		value = value[:len(value)-1]
	case tea.KeySpace:
		value += " "
	case tea.KeyRunes:
		value += string(m.Runes)
	default:
		return
	}
	a.bus.Publish(events.TopicContactsField, wizard.FieldChange{Field: field, Value: value})
}

func (a *App) handleSuccessKey(m tea.KeyMsg) {
	switch m.String() {
	case "esc", "enter":
		a.bus.Publish(events.TopicSuccessClose, nil)
	}
}

// drainSubmit turns a staged order into a command. Submit runs inside a bus
// dispatch, which runs inside Update, so the payload is parked on the model
// and picked up here once the dispatch unwinds.
func (a *App) drainSubmit() tea.Cmd {
	if a.pendingSubmit == nil {
		return nil
	}
	payload := *a.pendingSubmit
	a.pendingSubmit = nil
	return func() tea.Msg {
		res, err := a.gw.PostOrder(a.ctx, payload)
		return orderDoneMsg{res: res, err: err}
	}
}

func (a *App) visibleCatalog() []wizard.CardData {
	return rankCatalog(a.query, a.catalog)
}

func (a *App) openModal(state modalState) {
	if a.modal == state {
		return
	}
	wasClosed := a.modal == modalNone
	a.modal = state
	if wasClosed {
		a.bus.Publish(events.TopicModalOpen, nil)
	}
}

// --- wizard.Renderer ---

func (a *App) RenderCatalog(cards []wizard.CardData) {
	a.catalog = cards
	if a.cursor >= len(cards) {
		a.cursor = 0
	}
}

func (a *App) RenderCounter(count int) {
	a.counter = count
}

func (a *App) RenderPreview(card wizard.CardData) {
	a.preview = card
	a.openModal(modalPreview)
}

// RenderBasket only refreshes data. The basket modal opens on the basket key,
// not on every cart mutation.
func (a *App) RenderBasket(data wizard.BasketData) {
	a.basket = data
	if a.basketCursor >= len(data.Items) {
		a.basketCursor = 0
	}
}

func (a *App) RenderAddress(data wizard.AddressData) {
	a.address = data
	a.openModal(modalAddress)
}

func (a *App) RenderContacts(data wizard.ContactsData) {
	a.contacts = data
	if a.modal != modalContacts {
		a.contactsFocus = focusEmail
	}
	a.openModal(modalContacts)
}

func (a *App) RenderSuccess(data wizard.SuccessData) {
	a.success = data
	a.openModal(modalSuccess)
}

func (a *App) ShowAlert(msg string) {
	a.status = msg
}

func (a *App) CloseModal() {
	if a.modal == modalNone {
		return
	}
	a.modal = modalNone
	a.bus.Publish(events.TopicModalClose, nil)
}

func (a *App) SetPageLocked(locked bool) {
	a.pageLocked = locked
}

// --- wizard.Submitter ---

func (a *App) Submit(order wizard.OrderPayload) {
	a.pendingSubmit = &order
}

// messages
type catalogMsg struct {
	items []store.Product
	err   error
}

type orderDoneMsg struct {
	res wizard.OrderResult
	err error
}
