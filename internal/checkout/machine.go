package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/redbuilds/storefront/internal/cart"
	"github.com/redbuilds/storefront/internal/validate"
)

// CartEngine is the read-and-clear view of the cart the checkout needs. The
// machine never mutates lines directly; on success it only asks for a clear.
type CartEngine interface {
	Snapshot() []cart.Line
	Clear(ctx context.Context) error
}

// OrdersLog receives the confirmed order exactly once per successful submit.
type OrdersLog interface {
	Append(ctx context.Context, order Order) error
}

// Form is the checkout form as collected so far. Payment holds the
// method-specific variant; nil until a method is selected.
type Form struct {
	Customer      Customer
	Address       ShippingAddress
	Payment       PaymentDetails
	TermsAccepted bool
}

// Machine drives one checkout cycle from an editable cart to a persisted
// order. It is not safe for concurrent use; callers drive one cycle at a
// time, the way a single checkout view would.
type Machine struct {
	status  Status
	form    Form
	engine  CartEngine
	orders  OrdersLog
	gateway Gateway
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewMachine(engine CartEngine, orders OrdersLog, gateway Gateway, log logrus.FieldLogger) *Machine {
	return &Machine{
		status:  StatusIdle,
		engine:  engine,
		orders:  orders,
		gateway: gateway,
		log:     log,
		now:     time.Now,
	}
}

func (m *Machine) Status() Status {
	return m.status
}

// Begin starts a fresh cycle. It fails with ErrEmptyCart when there is
// nothing to check out, leaving the machine untouched. A confirmed machine
// may begin again; that starts a new order's cycle.
func (m *Machine) Begin() error {
	if m.status == StatusConfirmed {
		m.status = StatusIdle
		m.form = Form{}
	}
	if !CanTransitionTo(m.status, StatusEditing) {
		return ErrIllegalTransition
	}
	if len(m.engine.Snapshot()) == 0 {
		return ErrEmptyCart
	}

	m.status = StatusEditing
	m.form = Form{Address: ShippingAddress{Country: DefaultCountry}}
	return nil
}

// Cancel abandons the in-progress checkout and discards everything collected
// so far. The cart and the orders log are untouched.
func (m *Machine) Cancel() {
	m.form = Form{}
	m.status = StatusIdle
}

func (m *Machine) SetCustomer(c Customer) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	m.form.Customer = c
	return nil
}

func (m *Machine) SetAddress(a ShippingAddress) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	m.form.Address = a
	return nil
}

// SelectPaymentMethod replaces the active payment variant wholesale. Fields
// belonging to a previously selected method stop existing for validation.
func (m *Machine) SelectPaymentMethod(details PaymentDetails) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	m.form.Payment = details
	return nil
}

func (m *Machine) SetTermsAccepted(accepted bool) error {
	if m.status != StatusEditing {
		return ErrNotEditing
	}
	m.form.TermsAccepted = accepted
	return nil
}

// ActiveRequiredFields exposes the field set mandated by the currently
// selected payment method, empty until one is selected.
func (m *Machine) ActiveRequiredFields() []string {
	if m.form.Payment == nil {
		return nil
	}
	return m.form.Payment.RequiredFields()
}

// Submit validates the full form, charges through the gateway, persists the
// order and clears the cart. Every failed field is collected before
// reporting, so the caller can flag them all at once. Any failure after
// validation rolls the status back to EDITING and leaves the cart untouched;
// a retry submits again from the collected form.
func (m *Machine) Submit(ctx context.Context) (*Order, error) {
	if !CanTransitionTo(m.status, StatusValidating) {
		return nil, ErrIllegalTransition
	}
	m.status = StatusValidating

	if errs := m.validateForm(); len(errs) > 0 {
		m.status = StatusEditing
		return nil, errs
	}
	m.status = StatusSubmitting

	items := m.engine.Snapshot()
	if len(items) == 0 {
		m.status = StatusEditing
		return nil, ErrEmptyCart
	}

	subtotal := cart.Total(items)
	order := Order{
		OrderNumber:     NewOrderNumber(),
		Customer:        m.form.Customer,
		ShippingAddress: m.form.Address,
		Payment:         m.form.Payment.Redact(),
		Items:           items,
		Subtotal:        subtotal,
		Shipping:        ShippingFeeMinor,
		Total:           subtotal + ShippingFeeMinor,
		CreatedAt:       m.now().UTC(),
	}

	if err := m.gateway.Charge(ctx, order.Total, order.Payment); err != nil {
		m.status = StatusEditing
		return nil, fmt.Errorf("payment processing: %w", err)
	}

	// Two independent writes; the store offers no transaction across keys.
	// A crash between them can leave the order persisted next to a stale
	// cart, matching the source behavior.
	if err := m.orders.Append(ctx, order); err != nil {
		m.status = StatusEditing
		return nil, fmt.Errorf("append order: %w", err)
	}

	if err := m.engine.Clear(ctx); err != nil {
		// The order is already on the log. Reporting the failure lets the
		// user retry, which would duplicate the order; that mirrors the
		// source, which has the same window.
		m.status = StatusEditing
		m.log.WithError(err).WithField("order_number", order.OrderNumber).
			Warn("order persisted but cart clear failed")
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	m.status = StatusConfirmed
	m.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"method":       order.Payment.Method,
	}).Info("order confirmed")
	return &order, nil
}

func (m *Machine) validateForm() validate.FieldErrors {
	var errs validate.FieldErrors

	errs.Add("name", validate.Name(m.form.Customer.Name))
	errs.Add("email", validate.Email(m.form.Customer.Email))
	if err := validate.Required(m.form.Customer.Phone); err != nil {
		errs.Add("phone", err)
	} else {
		errs.Add("phone", validate.Phone(m.form.Customer.Phone))
	}
	errs.Add("address", validate.Required(m.form.Address.Address))
	errs.Add("city", validate.Required(m.form.Address.City))
	errs.Add("province", validate.Required(m.form.Address.Province))
	errs.Add("zip", validate.Required(m.form.Address.Zip))
	errs.Add("country", validate.Required(m.form.Address.Country))

	if m.form.Payment == nil {
		errs.Add("payment_method", ErrPaymentMethodRequired)
	} else {
		errs = append(errs, m.form.Payment.Validate()...)
	}

	errs.Add("terms", validate.Accepted(m.form.TermsAccepted))
	return errs
}
