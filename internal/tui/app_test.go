package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/milovmv/larek/internal/config"
	"github.com/milovmv/larek/internal/events"
	"github.com/milovmv/larek/internal/store"
	"github.com/milovmv/larek/internal/wizard"
)

func price(v int64) *int64 { return &v }

type stubSource struct {
	items []store.Product
	err   error
}

func (s *stubSource) GetProducts(context.Context) ([]store.Product, error) {
	return s.items, s.err
}

type stubGateway struct {
	res wizard.OrderResult
	err error
	got []wizard.OrderPayload
}

func (g *stubGateway) PostOrder(_ context.Context, order wizard.OrderPayload) (wizard.OrderResult, error) {
	g.got = append(g.got, order)
	return g.res, g.err
}

func testCatalog() []store.Product {
	return []store.Product{
		{ID: "p1", Title: "Bug-repellent amulet", Price: price(1450), Category: "button"},
		{ID: "p2", Title: "Focus grenade", Price: price(1250), Category: "hard-skill"},
		{ID: "p3", Title: "Combinator grant", Price: nil, Category: "other"},
	}
}

func newTestApp(t *testing.T, gw *stubGateway) *App {
	t.Helper()
	quiet := func(string, ...any) {}
	bus := events.New()
	bus.SetLogger(quiet)
	st := store.New(bus)
	cart := store.NewCart(st, bus)
	cart.SetLogger(quiet)
	src := &stubSource{items: testCatalog()}

	cfg := config.Config{}
	cfg.UI.CurrencySymbol = "syn"
	app := New(context.Background(), cfg, bus, st, src, gw)
	presenter, err := wizard.New(bus, st, cart, app, app)
	require.NoError(t, err)
	presenter.SetLogger(quiet)
	app.SetPresenter(presenter)
	presenter.Bind()

	app.Update(catalogMsg{items: testCatalog()})
	return app
}

func press(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(a *App, s string) {
	for _, r := range s {
		if r == ' ' {
			press(a, key(tea.KeySpace))
			continue
		}
		press(a, runes(string(r)))
	}
}

func TestCheckoutFlowByKeys(t *testing.T) {
	t.Parallel()
	gw := &stubGateway{res: wizard.OrderResult{ID: "order-1", Total: 1450}}
	a := newTestApp(t, gw)

	require.Len(t, a.catalog, 3)

	// open the first card and add it
	press(a, key(tea.KeyEnter))
	require.Equal(t, modalPreview, a.modal)
	require.Equal(t, "Bug-repellent amulet", a.preview.Title)
	require.True(t, a.pageLocked)

	press(a, key(tea.KeyEnter))
	require.Equal(t, modalNone, a.modal)
	require.Equal(t, 1, a.counter)
	require.False(t, a.pageLocked)

	// basket, then checkout
	press(a, runes("b"))
	require.Equal(t, modalBasket, a.modal)
	require.Len(t, a.basket.Items, 1)
	require.Equal(t, int64(1450), a.basket.Total)

	press(a, key(tea.KeyEnter))
	require.Equal(t, modalAddress, a.modal)
	require.Equal(t, store.PaymentCard, a.address.Payment)
	require.False(t, a.address.Valid)

	typeText(a, "Spolokh street 15")
	require.True(t, a.address.Valid)
	press(a, key(tea.KeyTab))
	require.Equal(t, store.PaymentCash, a.address.Payment)

	press(a, key(tea.KeyEnter))
	require.Equal(t, modalContacts, a.modal)

	typeText(a, "a@b.co")
	press(a, key(tea.KeyTab))
	typeText(a, "+79001234567")
	require.True(t, a.contacts.Valid)

	cmd := press(a, key(tea.KeyEnter))
	require.NotNil(t, cmd, "submit must produce an order command")
	require.True(t, a.contacts.Submitting)

	msg := cmd()
	press(a, msg)
	require.Equal(t, modalSuccess, a.modal)
	require.Equal(t, "order-1", a.success.OrderID)
	require.Equal(t, 0, a.counter)

	require.Len(t, gw.got, 1)
	require.Equal(t, []string{"p1"}, gw.got[0].Items)
	require.Equal(t, int64(1450), gw.got[0].Total)
	require.Equal(t, store.PaymentCash, gw.got[0].Payment)
	require.Equal(t, "a@b.co", gw.got[0].Email)

	press(a, key(tea.KeyEnter))
	require.Equal(t, modalNone, a.modal)
}

func TestInvalidAddressBlocksNextStep(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &stubGateway{})

	press(a, key(tea.KeyEnter))
	press(a, key(tea.KeyEnter)) // add p1
	press(a, runes("b"))
	press(a, key(tea.KeyEnter)) // order:open

	typeText(a, "abc") // too short
	press(a, key(tea.KeyEnter))
	require.Equal(t, modalAddress, a.modal, "short address must not advance the wizard")
}

func TestSubmitFailureKeepsContactsOpen(t *testing.T) {
	t.Parallel()
	gw := &stubGateway{err: errors.New("boom")}
	a := newTestApp(t, gw)

	press(a, key(tea.KeyEnter))
	press(a, key(tea.KeyEnter))
	press(a, runes("b"))
	press(a, key(tea.KeyEnter))
	typeText(a, "Spolokh street 15")
	press(a, key(tea.KeyEnter))
	typeText(a, "a@b.co")
	press(a, key(tea.KeyTab))
	typeText(a, "+79001234567")

	cmd := press(a, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	press(a, cmd())

	require.Equal(t, modalContacts, a.modal)
	require.False(t, a.contacts.Submitting, "failed submit releases the latch")
	require.NotEmpty(t, a.status)
	require.Equal(t, 1, a.counter, "cart survives a failed submit")

	// retry succeeds
	gw.err = nil
	gw.res = wizard.OrderResult{ID: "order-2", Total: 1450}
	cmd = press(a, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	press(a, cmd())
	require.Equal(t, modalSuccess, a.modal)
}

func TestPricelessPreviewCannotBeAdded(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &stubGateway{})

	press(a, key(tea.KeyDown))
	press(a, key(tea.KeyDown))
	press(a, key(tea.KeyEnter))
	require.Equal(t, modalPreview, a.modal)
	require.True(t, a.preview.ButtonDisabled)

	press(a, key(tea.KeyEnter))
	require.Equal(t, modalPreview, a.modal, "disabled button ignores enter")
	require.Equal(t, 0, a.counter)
}

func TestPreviewTogglesRemove(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &stubGateway{})

	press(a, key(tea.KeyEnter))
	press(a, key(tea.KeyEnter)) // add, closes modal
	press(a, key(tea.KeyEnter)) // reopen preview
	require.Equal(t, modalPreview, a.modal)
	require.True(t, a.preview.InCart)

	press(a, key(tea.KeyEnter)) // remove
	require.Equal(t, modalPreview, a.modal, "remove re-renders the preview in place")
	require.False(t, a.preview.InCart)
	require.Equal(t, 0, a.counter)
}

func TestEscClosesModalAndResetsWizard(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &stubGateway{})

	press(a, key(tea.KeyEnter))
	press(a, key(tea.KeyEnter))
	press(a, runes("b"))
	press(a, key(tea.KeyEnter))
	typeText(a, "Spolokh street 15")

	press(a, key(tea.KeyEsc))
	require.Equal(t, modalNone, a.modal)
	require.False(t, a.pageLocked)
	require.Equal(t, 1, a.counter, "closing the wizard keeps the cart")

	// reopening starts from a blank form
	press(a, runes("b"))
	press(a, key(tea.KeyEnter))
	require.Empty(t, a.address.Address)
}

func TestEmptyBasketCheckoutShowsAlert(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &stubGateway{})

	press(a, runes("b"))
	require.Equal(t, modalBasket, a.modal)
	require.True(t, a.basket.ButtonDisabled)

	press(a, key(tea.KeyEnter))
	require.Equal(t, modalNone, a.modal)
	require.NotEmpty(t, a.status)
}

func TestSearchRanksSubstringFirst(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &stubGateway{})

	press(a, runes("/"))
	require.True(t, a.searching)
	typeText(a, "grenade")

	visible := a.visibleCatalog()
	require.Equal(t, "Focus grenade", visible[0].Title)

	press(a, key(tea.KeyEnter)) // accept search
	require.False(t, a.searching)
	press(a, key(tea.KeyEnter)) // open top match
	require.Equal(t, modalPreview, a.modal)
	require.Equal(t, "Focus grenade", a.preview.Title)
}

func TestRankCatalogEmptyQueryKeepsOrder(t *testing.T) {
	t.Parallel()
	cards := []wizard.CardData{{Title: "b"}, {Title: "a"}}
	require.Equal(t, cards, rankCatalog("", cards))
	require.Equal(t, cards, rankCatalog("   ", cards))
}

func TestOverlayHelpers(t *testing.T) {
	t.Parallel()
	require.Equal(t, "ab  ", padRight("ab", 4))
	require.Equal(t, "ab", padRight("ab", 0))
	require.Equal(t, "abc", truncate("abc", 10))
	require.Equal(t, "", truncate("abc", 0))
	require.Equal(t, []string{""}, splitLines(""))
	require.Equal(t, 3, maxLineWidth([]string{"a", "abc", "ab"}))

	base := "....\n....\n...."
	got := overlayAt(base, "XX", 1, 1, 4, 3)
	require.Equal(t, "....\n.XX.\n....", got)
}

func TestViewSmoke(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &stubGateway{})
	a.width, a.height = 80, 24

	require.Contains(t, a.View(), "Bug-repellent amulet")

	press(a, key(tea.KeyEnter))
	view := a.View()
	require.Contains(t, view, "Bug-repellent amulet")
	require.Contains(t, view, "Add to cart")
}
