package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/milovmv/larek/internal/store"
)

// Catppuccin Mocha, the handful of entries the storefront needs.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorOverlay1 lipgloss.Color = "#7f849c"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorPink)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorLavender).Padding(1, 2)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	successStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	focusStyle    = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay1)
	categoryStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

func (a *App) View() string {
	base := a.renderPage()
	if a.modal == modalNone {
		return base
	}
	box := modalStyle.Render(a.renderModal())
	if a.width <= 0 || a.height <= 0 {
		return base + "\n\n" + box
	}
	boxLines := splitLines(box)
	x := (a.width - maxLineWidth(boxLines)) / 2
	y := (a.height - len(boxLines)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	for len(splitLines(base)) < a.height {
		base += "\n"
	}
	return overlayAt(base, box, x, y, a.width, a.height)
}

func (a *App) renderPage() string {
	title := titleStyle.Render("Web Larek")
	cart := fmt.Sprintf("Cart: %d", a.counter)
	out := title + "  " + cart + "\n"
	if a.searching {
		out += "Search: " + a.query + "▌\n"
	} else if a.query != "" {
		out += "Search: " + a.query + dimStyle.Render("  (esc to clear)") + "\n"
	}
	visible := a.visibleCatalog()
	if len(visible) == 0 {
		out += dimStyle.Render("No products.") + "\n"
	}
	for i, card := range visible {
		marker := " "
		if i == a.cursor && a.modal == modalNone {
			marker = "▶"
		}
		inCart := " "
		if card.InCart {
			inCart = "●"
		}
		out += fmt.Sprintf("%s %s %-36s %-12s %s\n",
			marker, inCart, truncate(card.Title, 36), categoryStyle.Render(card.Category), a.formatPrice(card.Price))
	}
	out += "\n[enter] Open  [b] Basket  [/] Search  [q] Quit"
	if a.status != "" {
		out += "\n" + errorStyle.Render(a.status)
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalPreview:
		return a.renderPreview()
	case modalBasket:
		return a.renderBasket()
	case modalAddress:
		return a.renderAddress()
	case modalContacts:
		return a.renderContacts()
	case modalSuccess:
		return a.renderSuccess()
	default:
		return ""
	}
}

func (a *App) renderPreview() string {
	card := a.preview
	out := titleStyle.Render(card.Title) + "\n"
	out += categoryStyle.Render(card.Category) + "  " + a.formatPrice(card.Price) + "\n\n"
	if card.Description != "" {
		out += card.Description + "\n\n"
	}
	button := card.ButtonText
	if card.ButtonDisabled {
		button = dimStyle.Render(button)
	} else {
		button = focusStyle.Render(button)
	}
	out += button + "\n\n[enter] " + card.ButtonText + "  [b] Basket  [esc] Close"
	return out
}

func (a *App) renderBasket() string {
	out := titleStyle.Render("Basket") + "\n"
	if len(a.basket.Items) == 0 {
		out += dimStyle.Render("Empty.") + "\n"
	}
	for i, line := range a.basket.Items {
		marker := " "
		if i == a.basketCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %d. %-36s %s\n", marker, line.Index, truncate(line.Title, 36), a.formatPrice(line.Price))
	}
	out += "\nTotal: " + a.formatTotal(a.basket.Total) + "\n"
	button := a.basket.ButtonText
	if a.basket.ButtonDisabled {
		button = dimStyle.Render(button)
	} else {
		button = focusStyle.Render(button)
	}
	out += button + "\n\n[enter] Checkout  [x] Remove  [esc] Close"
	return out
}

func (a *App) renderAddress() string {
	out := titleStyle.Render("Order - step 1 of 2") + "\n\n"
	card, cash := "( ) Card", "( ) Cash"
	if a.address.Payment == store.PaymentCard {
		card = focusStyle.Render("(•) Card")
	}
	if a.address.Payment == store.PaymentCash {
		cash = focusStyle.Render("(•) Cash")
	}
	out += "Payment:  " + card + "  " + cash + "\n"
	out += "Address:  " + a.address.Address + "▌\n"
	out += a.renderErrors(a.address.Errors)
	next := "Next"
	if !a.address.Valid {
		next = dimStyle.Render(next)
	} else {
		next = focusStyle.Render(next)
	}
	out += "\n" + next + "\n\n[tab] Toggle payment  [enter] Next  [esc] Cancel"
	return out
}

func (a *App) renderContacts() string {
	out := titleStyle.Render("Order - step 2 of 2") + "\n\n"
	email := "Email:  " + a.contacts.Email
	phone := "Phone:  " + a.contacts.Phone
	if a.contactsFocus == focusEmail {
		email += "▌"
	} else {
		phone += "▌"
	}
	out += email + "\n" + phone + "\n"
	out += a.renderErrors(a.contacts.Errors)
	button := "Pay"
	switch {
	case a.contacts.Submitting:
		button = dimStyle.Render("Submitting...")
	case !a.contacts.Valid:
		button = dimStyle.Render(button)
	default:
		button = focusStyle.Render(button)
	}
	out += "\n" + button + "\n\n[tab] Switch field  [enter] Pay  [esc] Cancel"
	return out
}

func (a *App) renderSuccess() string {
	out := titleStyle.Render("Order placed") + "\n\n"
	out += successStyle.Render(fmt.Sprintf("Charged %s", a.formatTotal(a.success.Total))) + "\n"
	out += dimStyle.Render("Order "+a.success.OrderID) + "\n\n[enter] Back to catalog"
	return out
}

func (a *App) renderErrors(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	// map order is random, keep the display stable
	sort.Strings(fields)
	out := ""
	for _, field := range fields {
		out += errorStyle.Render(errs[field]) + "\n"
	}
	return out
}

func (a *App) formatPrice(price *int64) string {
	if price == nil {
		return dimStyle.Render("Priceless")
	}
	return a.formatTotal(*price)
}

func (a *App) formatTotal(total int64) string {
	return fmt.Sprintf("%d %s", total, a.currency)
}
