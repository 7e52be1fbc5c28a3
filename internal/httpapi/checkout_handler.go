package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/redbuilds/storefront/internal/checkout"
	"github.com/redbuilds/storefront/internal/validate"
)

// CheckoutHandler runs one full checkout cycle per request: a fresh machine
// is built, driven through EDITING with the submitted form and asked to
// submit. Nothing is held between requests; the cart is the only state.
type CheckoutHandler struct {
	engine  checkout.CartEngine
	orders  checkout.OrdersLog
	gateway checkout.Gateway
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewCheckoutHandler(engine checkout.CartEngine, orders checkout.OrdersLog, gateway checkout.Gateway, log logrus.FieldLogger, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		engine:  engine,
		orders:  orders,
		gateway: gateway,
		log:     log,
		timeout: timeout,
	}
}

type CustomerDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type AddressDTO struct {
	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// PaymentDTO is the union of every method's fields; only the ones belonging
// to the selected method are read.
type PaymentDTO struct {
	Method       string `json:"method"`
	CardNumber   string `json:"card_number"`
	CardHolder   string `json:"card_holder"`
	CardExpiry   string `json:"card_expiry"`
	CardCVV      string `json:"card_cvv"`
	Installments int    `json:"installments"`
	PayerName    string `json:"payer_name"`
	OriginBank   string `json:"origin_bank"`
	ReceiptRef   string `json:"receipt_ref"`
	PayerEmail   string `json:"payer_email"`
	PaymentType  string `json:"payment_type"`
}

type SubmitCheckoutRequestDTO struct {
	Customer    CustomerDTO `json:"customer"`
	Address     AddressDTO  `json:"shipping_address"`
	Payment     *PaymentDTO `json:"payment"`
	AcceptTerms bool        `json:"accept_terms"`
}

type RequiredFieldsResponseDTO struct {
	Method string   `json:"method"`
	Fields []string `json:"fields"`
}

func paymentDetails(dto PaymentDTO) (checkout.PaymentDetails, error) {
	switch checkout.Method(dto.Method) {
	case checkout.MethodCreditCard, checkout.MethodDebitCard:
		return checkout.CardDetails{
			Kind:         checkout.Method(dto.Method),
			Number:       dto.CardNumber,
			Holder:       dto.CardHolder,
			Expiry:       dto.CardExpiry,
			CVV:          dto.CardCVV,
			Installments: dto.Installments,
		}, nil
	case checkout.MethodTransfer:
		return checkout.TransferDetails{
			PayerName:  dto.PayerName,
			OriginBank: dto.OriginBank,
			ReceiptRef: dto.ReceiptRef,
		}, nil
	case checkout.MethodMercadoPago:
		return checkout.MercadoPagoDetails{
			PayerEmail:  dto.PayerEmail,
			PaymentType: dto.PaymentType,
		}, nil
	}
	return nil, checkout.ErrUnknownPaymentMethod
}

// POST /api/v1/checkout
func (h *CheckoutHandler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SubmitCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	m := checkout.NewMachine(h.engine, h.orders, h.gateway, h.log)
	if err := m.Begin(); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cannot check out an empty cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if err := m.SetCustomer(checkout.Customer(req.Customer)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if err := m.SetAddress(checkout.ShippingAddress(req.Address)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if req.Payment != nil {
		details, err := paymentDetails(*req.Payment)
		if err != nil {
			respondError(w, http.StatusBadRequest, "unknown_payment_method",
				"payment method is not one of credit-card, debit-card, transfer, mercadopago")
			return
		}
		if err := m.SelectPaymentMethod(details); err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
	}
	if err := m.SetTermsAccepted(req.AcceptTerms); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	order, err := m.Submit(ctx)
	if err != nil {
		var fieldErrs validate.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			respondFieldErrors(w, fieldErrs)
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "cannot check out an empty cart")
		case errors.Is(err, context.DeadlineExceeded):
			respondError(w, http.StatusGatewayTimeout, "timeout", "checkout timed out")
		default:
			h.log.WithError(err).Error("checkout submit failed")
			respondError(w, http.StatusBadGateway, "checkout_failed", "checkout could not be completed")
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/checkout/methods/{method}/fields
func (h *CheckoutHandler) RequiredFields(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")

	fields, err := checkout.RequiredFields(checkout.Method(method))
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown_payment_method",
			"payment method is not one of credit-card, debit-card, transfer, mercadopago")
		return
	}

	respondJSON(w, http.StatusOK, RequiredFieldsResponseDTO{
		Method: method,
		Fields: fields,
	})
}
