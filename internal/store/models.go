package store

// Product is one catalog item. Immutable once loaded; the store owns the
// catalog slice. Price is in whole synapses; nil means priceless, which
// permanently excludes the product from purchase.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       *int64
	Category    string
	ImageURL    string
}

// Priceless reports whether the product can never be bought.
func (p Product) Priceless() bool { return p.Price == nil }

// PaymentMethod selects how the order is paid.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// Field names one editable order form field.
type Field string

const (
	FieldPayment Field = "payment"
	FieldAddress Field = "address"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
)

// OrderForm holds the user-edited checkout fields. Items and total are not
// stored here: they are derived from the cart through ItemIDs and Total, so
// they can never go stale.
type OrderForm struct {
	Payment PaymentMethod
	Address string
	Email   string
	Phone   string
}

// FormErrors maps a form field name to a human-readable message. A missing
// key means the field is valid. Recomputed wholesale per validation pass.
type FormErrors map[string]string

// Step identifies a checkout wizard step. StepNone means the wizard is
// closed; it is never a valid argument to Validate.
type Step string

const (
	StepNone     Step = ""
	StepAddress  Step = "address"
	StepContacts Step = "contacts"
)

// Payloads carried on the bus.

// ItemsChanged accompanies items:changed.
type ItemsChanged struct {
	Items []Product
}

// PreviewChanged accompanies preview:changed. ID is empty when the preview
// was cleared.
type PreviewChanged struct {
	ID string
}

// ValidityChanged accompanies orderForm:validity:changed. Step tags which
// step produced the result so a late arrival can be matched against the
// currently active step instead of being applied blindly.
type ValidityChanged struct {
	Step    Step
	IsValid bool
	Errors  FormErrors
}
