package checkout

import "errors"

var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition     = errors.New("illegal transition of checkout status")
	ErrNotEditing            = errors.New("checkout is not in the editing state")
	ErrPaymentMethodRequired = errors.New("payment method must be selected")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrPaymentTypeInvalid    = errors.New("mercadopago payment type must be credit, debit or account-money")
)
