package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milovmv/larek/internal/database"
	"github.com/milovmv/larek/internal/database/repository"
	"github.com/milovmv/larek/internal/events"
	"github.com/milovmv/larek/internal/store"
	"github.com/milovmv/larek/internal/wizard"
)

// runValidation executes a non-TUI checkout against a throwaway database:
// seed the demo catalog, add a product over the bus, walk both wizard steps,
// submit, and verify the order landed.
func runValidation(ctx context.Context) error {
	dir, err := os.MkdirTemp("", "larek-validate-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, "validate.db")
	db, err := database.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := database.RunMigrationsWithDB(db, migrationsPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	local := database.NewLocalGateway(db)
	bus := events.New()
	st := store.New(bus)
	cart := store.NewCart(st, bus)
	view := &captureView{}
	sub := &inlineSubmitter{ctx: ctx, gw: local}

	presenter, err := wizard.New(bus, st, cart, view, sub)
	if err != nil {
		return fmt.Errorf("wire presenter: %w", err)
	}
	sub.presenter = presenter
	presenter.Bind()
	presenter.Load(ctx, local)

	catalog := st.Catalog()
	if len(catalog) == 0 {
		return fmt.Errorf("seeded catalog is empty")
	}
	var product store.Product
	for _, p := range catalog {
		if !p.Priceless() {
			product = p
			break
		}
	}
	if product.ID == "" {
		return fmt.Errorf("no priced product in seeded catalog")
	}

	bus.Publish(events.TopicCardSelect, wizard.CardSelect{ID: product.ID})
	bus.Publish(events.TopicProductAdd, product)
	if cart.ItemCount() != 1 {
		return fmt.Errorf("cart count = %d, want 1", cart.ItemCount())
	}

	bus.Publish(events.TopicBasketOpen, nil)
	bus.Publish(events.TopicOrderOpen, nil)
	bus.Publish(events.TopicFormFieldChanged, wizard.FieldChange{Field: store.FieldAddress, Value: "Spolokh street 15"})
	bus.Publish(events.TopicOrderSubmit, nil)
	if presenter.ActiveStep() != store.StepContacts {
		return fmt.Errorf("wizard stuck at step %q after address submit", presenter.ActiveStep())
	}
	bus.Publish(events.TopicContactsField, wizard.FieldChange{Field: store.FieldEmail, Value: "validate@example.com"})
	bus.Publish(events.TopicContactsField, wizard.FieldChange{Field: store.FieldPhone, Value: "+79001234567"})
	bus.Publish(events.TopicContactsSubmit, nil)

	if view.success == nil {
		return fmt.Errorf("order submit did not reach the success view")
	}
	if view.success.Total != *product.Price {
		return fmt.Errorf("charged total = %d, want %d", view.success.Total, *product.Price)
	}
	if cart.ItemCount() != 0 {
		return fmt.Errorf("cart not cleared after checkout, count = %d", cart.ItemCount())
	}

	orders, err := repository.NewOrderRepo(db).List(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	if len(orders) != 1 {
		return fmt.Errorf("orders in db = %d, want 1", len(orders))
	}
	if orders[0].ID != view.success.OrderID {
		return fmt.Errorf("stored order id %q does not match success view %q", orders[0].ID, view.success.OrderID)
	}
	return nil
}

// captureView is a write-only renderer that records the success screen.
type captureView struct {
	success *wizard.SuccessData
	alerts  []string
}

func (v *captureView) RenderCatalog([]wizard.CardData)    {}
func (v *captureView) RenderCounter(int)                  {}
func (v *captureView) RenderPreview(wizard.CardData)      {}
func (v *captureView) RenderBasket(wizard.BasketData)     {}
func (v *captureView) RenderAddress(wizard.AddressData)   {}
func (v *captureView) RenderContacts(wizard.ContactsData) {}
func (v *captureView) RenderSuccess(d wizard.SuccessData) { v.success = &d }
func (v *captureView) ShowAlert(msg string)               { v.alerts = append(v.alerts, msg) }
func (v *captureView) CloseModal()                        {}
func (v *captureView) SetPageLocked(bool)                 {}

// inlineSubmitter posts the order synchronously; there is no event loop to
// defer to here.
type inlineSubmitter struct {
	ctx       context.Context
	gw        wizard.OrderGateway
	presenter *wizard.Presenter
}

func (s *inlineSubmitter) Submit(order wizard.OrderPayload) {
	res, err := s.gw.PostOrder(s.ctx, order)
	s.presenter.OrderCompleted(res, err)
}
