package checkout

import (
	"strings"

	"github.com/redbuilds/storefront/internal/validate"
)

type Method string

const (
	MethodCreditCard  Method = "credit-card"
	MethodDebitCard   Method = "debit-card"
	MethodTransfer    Method = "transfer"
	MethodMercadoPago Method = "mercadopago"
)

// MercadoPago payment sub-types.
const (
	MPTypeCredit       = "credit"
	MPTypeDebit        = "debit"
	MPTypeAccountMoney = "account-money"
)

// PaymentDetails is the method-specific slice of the checkout form. Each
// variant owns its required-field set, its validation and its redaction into
// the persistable form. Selecting a different method replaces the variant
// wholesale, so nothing from the previous method is required or validated.
type PaymentDetails interface {
	Method() Method
	RequiredFields() []string
	Validate() validate.FieldErrors
	Redact() StoredPayment
}

// StoredPayment is the only payment shape that ever reaches the orders log.
// For cards it carries the last four digits at most; the full number and the
// CVV never leave the form.
type StoredPayment struct {
	Method       Method `json:"method"`
	CardLast4    string `json:"card_last4,omitempty"`
	CardHolder   string `json:"card_holder,omitempty"`
	Installments int    `json:"installments,omitempty"`
	PayerName    string `json:"payer_name,omitempty"`
	OriginBank   string `json:"origin_bank,omitempty"`
	ReceiptRef   string `json:"receipt_ref,omitempty"`
	PayerEmail   string `json:"payer_email,omitempty"`
	PaymentType  string `json:"payment_type,omitempty"`
}

// CardDetails covers both credit and debit cards; Kind tells them apart.
type CardDetails struct {
	Kind         Method
	Number       string // formatted as "1234 5678 9012 3456"
	Holder       string
	Expiry       string // MM/YY
	CVV          string
	Installments int
}

func (d CardDetails) Method() Method {
	if d.Kind == MethodDebitCard {
		return MethodDebitCard
	}
	return MethodCreditCard
}

func (d CardDetails) RequiredFields() []string {
	return []string{"card_number", "card_holder", "card_expiry", "card_cvv", "installments"}
}

func (d CardDetails) Validate() validate.FieldErrors {
	var errs validate.FieldErrors
	errs.Add("card_number", validate.CardNumber(d.Number))
	errs.Add("card_holder", validate.Name(d.Holder))
	errs.Add("card_expiry", validate.CardExpiry(d.Expiry))
	errs.Add("card_cvv", validate.CVV(d.CVV))
	errs.Add("installments", validate.Installments(d.Installments))
	return errs
}

func (d CardDetails) Redact() StoredPayment {
	digits := strings.ReplaceAll(d.Number, " ", "")
	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	return StoredPayment{
		Method:       d.Method(),
		CardLast4:    last4,
		CardHolder:   d.Holder,
		Installments: d.Installments,
	}
}

// TransferDetails is a bank transfer. The receipt reference is optional;
// the order conceptually stays pending until the transfer is confirmed.
type TransferDetails struct {
	PayerName  string
	OriginBank string
	ReceiptRef string
}

func (TransferDetails) Method() Method { return MethodTransfer }

func (TransferDetails) RequiredFields() []string {
	return []string{"payer_name", "origin_bank"}
}

func (d TransferDetails) Validate() validate.FieldErrors {
	var errs validate.FieldErrors
	errs.Add("payer_name", validate.Required(d.PayerName))
	errs.Add("origin_bank", validate.Required(d.OriginBank))
	return errs
}

func (d TransferDetails) Redact() StoredPayment {
	return StoredPayment{
		Method:     MethodTransfer,
		PayerName:  d.PayerName,
		OriginBank: d.OriginBank,
		ReceiptRef: d.ReceiptRef,
	}
}

type MercadoPagoDetails struct {
	PayerEmail  string
	PaymentType string // credit, debit or account-money
}

func (MercadoPagoDetails) Method() Method { return MethodMercadoPago }

func (MercadoPagoDetails) RequiredFields() []string {
	return []string{"payer_email", "payment_type"}
}

func (d MercadoPagoDetails) Validate() validate.FieldErrors {
	var errs validate.FieldErrors
	errs.Add("payer_email", validate.Email(d.PayerEmail))
	switch d.PaymentType {
	case MPTypeCredit, MPTypeDebit, MPTypeAccountMoney:
	default:
		errs.Add("payment_type", ErrPaymentTypeInvalid)
	}
	return errs
}

func (d MercadoPagoDetails) Redact() StoredPayment {
	return StoredPayment{
		Method:      MethodMercadoPago,
		PayerEmail:  d.PayerEmail,
		PaymentType: d.PaymentType,
	}
}

// RequiredFields returns the active required-field set for a method without
// any collected input, for the presentation layer to render.
func RequiredFields(m Method) ([]string, error) {
	switch m {
	case MethodCreditCard, MethodDebitCard:
		return CardDetails{Kind: m}.RequiredFields(), nil
	case MethodTransfer:
		return TransferDetails{}.RequiredFields(), nil
	case MethodMercadoPago:
		return MercadoPagoDetails{}.RequiredFields(), nil
	}
	return nil, ErrUnknownPaymentMethod
}
