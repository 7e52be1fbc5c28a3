package httpapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbuilds/storefront/internal/checkout"
)

func validCheckoutRequest() SubmitCheckoutRequestDTO {
	return SubmitCheckoutRequestDTO{
		Customer: CustomerDTO{
			Name:  "Ana García",
			Email: "ana@example.com",
			Phone: "+54 11 4321 5678",
		},
		Address: AddressDTO{
			Address:  "Av. Siempre Viva 742",
			City:     "Buenos Aires",
			Province: "CABA",
			Zip:      "1414",
		},
		Payment: &PaymentDTO{
			Method:       string(checkout.MethodCreditCard),
			CardNumber:   "1234 5678 9012 3456",
			CardHolder:   "Ana García",
			CardExpiry:   "12/27",
			CardCVV:      "123",
			Installments: 3,
		},
		AcceptTerms: true,
	}
}

func TestSubmitCheckout_EmptyCart(t *testing.T) {
	e := newEnv(t)

	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", validCheckoutRequest())

	require.Equal(t, http.StatusConflict, recorder.Code)
	resp := decodeJSON[ErrorResponse](t, recorder)
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestSubmitCheckout_InvalidJSON(t *testing.T) {
	e := newEnv(t)

	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", "nope")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSubmitCheckout_UnknownPaymentMethod(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1})

	req := validCheckoutRequest()
	req.Payment.Method = "cash"
	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	resp := decodeJSON[ErrorResponse](t, recorder)
	assert.Equal(t, "unknown_payment_method", resp.Code)
}

func TestSubmitCheckout_ValidationFailuresCollected(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1})

	req := validCheckoutRequest()
	req.Customer.Name = ""
	req.Customer.Email = "not-an-email"
	req.Payment.CardCVV = "12"
	req.AcceptTerms = false
	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", req)

	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	resp := decodeJSON[ErrorResponse](t, recorder)
	assert.Equal(t, "validation_failed", resp.Code)
	for _, field := range []string{"name", "email", "card_cvv", "terms"} {
		assert.Contains(t, resp.Fields, field)
	}

	// nothing was charged or persisted
	orders, err := e.orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 1, e.engine.ItemCount())
}

func TestSubmitCheckout_MissingPayment(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1})

	req := validCheckoutRequest()
	req.Payment = nil
	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", req)

	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	resp := decodeJSON[ErrorResponse](t, recorder)
	assert.Contains(t, resp.Fields, "payment_method")
}

func TestSubmitCheckout_Success(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1})

	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", validCheckoutRequest())

	require.Equal(t, http.StatusCreated, recorder.Code)
	order := decodeJSON[checkout.Order](t, recorder)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "RB"))
	assert.Equal(t, int64(10000), order.Subtotal)
	assert.Equal(t, int64(25000), order.Total)
	assert.Equal(t, "Argentina", order.ShippingAddress.Country)
	assert.Equal(t, "3456", order.Payment.CardLast4)

	// cart cleared, order on the log
	assert.Zero(t, e.engine.ItemCount())
	orders, err := e.orders.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.OrderNumber, orders[0].OrderNumber)
}

func TestSubmitCheckout_ResponseNeverCarriesCardSecrets(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1})

	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", validCheckoutRequest())

	require.Equal(t, http.StatusCreated, recorder.Code)
	body := recorder.Body.String()
	assert.NotContains(t, body, "1234 5678 9012 3456")
	assert.NotContains(t, body, `"123"`)
}

func TestSubmitCheckout_TransferMethod(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 2})

	req := validCheckoutRequest()
	req.Payment = &PaymentDTO{
		Method:     string(checkout.MethodTransfer),
		PayerName:  "Ana García",
		OriginBank: "Banco Nación",
	}
	recorder := e.do(t, http.MethodPost, "/api/v1/checkout", req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	order := decodeJSON[checkout.Order](t, recorder)
	assert.Equal(t, checkout.MethodTransfer, order.Payment.Method)
	assert.Equal(t, "Banco Nación", order.Payment.OriginBank)
}

func TestRequiredFields_PerMethod(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		method string
		fields []string
	}{
		{"credit-card", []string{"card_number", "card_holder", "card_expiry", "card_cvv", "installments"}},
		{"debit-card", []string{"card_number", "card_holder", "card_expiry", "card_cvv", "installments"}},
		{"transfer", []string{"payer_name", "origin_bank"}},
		{"mercadopago", []string{"payer_email", "payment_type"}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			recorder := e.do(t, http.MethodGet, "/api/v1/checkout/methods/"+tt.method+"/fields", nil)

			require.Equal(t, http.StatusOK, recorder.Code)
			resp := decodeJSON[RequiredFieldsResponseDTO](t, recorder)
			assert.Equal(t, tt.fields, resp.Fields)
		})
	}
}

func TestRequiredFields_UnknownMethod(t *testing.T) {
	e := newEnv(t)

	recorder := e.do(t, http.MethodGet, "/api/v1/checkout/methods/cash/fields", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
