package events

// Topic names published on the bus. Exact strings, case-sensitive; views and
// the presenter agree on these as the wire protocol of the app.
const (
	TopicItemsChanged     = "items:changed"
	TopicPreviewChanged   = "preview:changed"
	TopicCardSelect       = "card:select"
	TopicCartChanged      = "cart:changed"
	TopicProductAdd       = "product:add"
	TopicProductRemove    = "product:remove"
	TopicBasketOpen       = "basket:open"
	TopicOrderOpen        = "order:open"
	TopicFormFieldChanged = "form:field:changed"
	TopicPaymentChanged   = "payment:changed"
	TopicOrderSubmit      = "order:submit"
	TopicContactsField    = "contacts:field:changed"
	TopicContactsSubmit   = "contacts:submit"
	TopicFormErrors       = "formErrors:changed"
	TopicOrderValidity    = "orderForm:validity:changed"
	TopicModalOpen        = "modal:open"
	TopicModalClose       = "modal:close"
	TopicSuccessClose     = "success:close"
)
