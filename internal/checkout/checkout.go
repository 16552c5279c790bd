// Package checkout drives a single checkout attempt as an explicit state
// machine: collect an address, review the order, branch on payment method,
// submit, confirm. One instance serves one attempt; a confirmed instance is
// terminal.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/YousefHatem4/food_storefront/internal/cart"
	"github.com/YousefHatem4/food_storefront/internal/history"
	"github.com/YousefHatem4/food_storefront/internal/models"
)

var (
	ErrValidation     = errors.New("validation")
	ErrConflict       = errors.New("conflict")
	ErrSubmitInFlight = errors.New("submission already in flight")
)

type Step string

const (
	StepCollectingAddress Step = "collecting_address"
	StepReviewingOrder    Step = "reviewing_order"
	StepCardDetails       Step = "card_details"
	StepSubmitting        Step = "submitting"
	StepConfirmed         Step = "confirmed"
)

type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

type Checkout struct {
	mu      sync.Mutex
	step    Step
	address models.Address

	cart    *cart.Cart
	history *history.Store

	// delay stands in for the payment collaborator's round trip.
	delay time.Duration
	now   func() time.Time
}

func New(c *cart.Cart, h *history.Store, delay time.Duration) *Checkout {
	return &Checkout{
		step:    StepCollectingAddress,
		cart:    c,
		history: h,
		delay:   delay,
		now:     time.Now,
	}
}

func (co *Checkout) Step() Step {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.step
}

func (co *Checkout) Address() models.Address {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.address
}

// EnterAddress stores the delivery address and moves to order review. The
// address may be re-entered while reviewing; once a submission is in flight
// or confirmed it is fixed.
func (co *Checkout) EnterAddress(addr models.Address) error {
	co.mu.Lock()
	defer co.mu.Unlock()

	switch co.step {
	case StepCollectingAddress, StepReviewingOrder, StepCardDetails:
		co.address = addr
		co.step = StepReviewingOrder
		return nil
	case StepSubmitting:
		return ErrSubmitInFlight
	default:
		return fmt.Errorf("%w: checkout already %s", ErrConflict, co.step)
	}
}

// PlaceOrder leaves order review. Cash on delivery submits immediately; card
// moves to card-details collection and returns a nil order. Validation
// failures keep the current step and leave the cart untouched.
func (co *Checkout) PlaceOrder(ctx context.Context, method models.PaymentMethod) (*models.Order, error) {
	co.mu.Lock()
	switch co.step {
	case StepReviewingOrder:
	case StepSubmitting:
		co.mu.Unlock()
		return nil, ErrSubmitInFlight
	default:
		step := co.step
		co.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot place order while %s", ErrConflict, step)
	}

	if err := co.validatePlacementLocked(); err != nil {
		co.mu.Unlock()
		return nil, err
	}

	if method == models.PaymentBankTransfer {
		co.step = StepCardDetails
		co.mu.Unlock()
		return nil, nil
	}

	co.step = StepSubmitting
	co.mu.Unlock()

	return co.submit(ctx, models.PaymentCashOnDelivery, "", StepReviewingOrder)
}

// SubmitCard validates the collected card details and submits the order as a
// bank transfer with a generated transaction id. Any failing field keeps the
// card-details step; nothing is recorded and the cart is unchanged.
func (co *Checkout) SubmitCard(ctx context.Context, details CardDetails) (*models.Order, error) {
	co.mu.Lock()
	switch co.step {
	case StepCardDetails:
	case StepSubmitting:
		co.mu.Unlock()
		return nil, ErrSubmitInFlight
	default:
		step := co.step
		co.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot submit card details while %s", ErrConflict, step)
	}

	if err := validateCard(details); err != nil {
		co.mu.Unlock()
		return nil, err
	}

	co.step = StepSubmitting
	co.mu.Unlock()

	return co.submit(ctx, models.PaymentBankTransfer, newTransactionID(), StepCardDetails)
}

func (co *Checkout) validatePlacementLocked() error {
	if co.address.Street == "" || co.address.City == "" || co.address.Phone == "" {
		return fmt.Errorf("%w: please fill all required address fields", ErrValidation)
	}
	if co.cart.Len() == 0 {
		return fmt.Errorf("%w: your cart is empty", ErrValidation)
	}
	return nil
}

// submit runs the simulated payment round trip and records the order. On any
// failure (cancellation included) it falls back to the prior interactive step
// without recording anything; partial orders never reach history.
func (co *Checkout) submit(ctx context.Context, method models.PaymentMethod, txnID string, fallback Step) (*models.Order, error) {
	if err := co.wait(ctx); err != nil {
		co.setStep(fallback)
		return nil, err
	}

	order := co.snapshot(method, txnID)
	if err := co.history.Record(ctx, order); err != nil {
		co.setStep(fallback)
		return nil, err
	}

	co.cart.Clear()
	co.setStep(StepConfirmed)
	return &order, nil
}

func (co *Checkout) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if co.delay <= 0 {
		return nil
	}

	t := time.NewTimer(co.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (co *Checkout) snapshot(method models.PaymentMethod, txnID string) models.Order {
	co.mu.Lock()
	defer co.mu.Unlock()

	return models.Order{
		OrderID:       newOrderID(),
		Items:         co.cart.Lines(),
		Address:       co.address,
		PaymentMethod: method,
		Subtotal:      co.cart.Subtotal(),
		Discount:      co.cart.Discount(),
		Total:         co.cart.Total(),
		Status:        models.OrderStatusProcessing,
		TransactionID: txnID,
		Date:          co.now().UTC(),
	}
}

func (co *Checkout) setStep(s Step) {
	co.mu.Lock()
	co.step = s
	co.mu.Unlock()
}

func validateCard(d CardDetails) error {
	if d.Number == "" || d.Expiry == "" || d.CVV == "" || strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: please fill all card details", ErrValidation)
	}

	number := strings.ReplaceAll(d.Number, " ", "")
	if len(number) != 16 || !allDigits(number) {
		return fmt.Errorf("%w: please enter a valid 16-digit card number", ErrValidation)
	}

	month, year, ok := strings.Cut(d.Expiry, "/")
	if !ok || len(month) != 2 || len(year) != 2 || !allDigits(month) || !allDigits(year) {
		return fmt.Errorf("%w: please enter a valid expiry date (MM/YY)", ErrValidation)
	}

	if len(d.CVV) < 3 || len(d.CVV) > 4 || !allDigits(d.CVV) {
		return fmt.Errorf("%w: please enter a valid security code", ErrValidation)
	}

	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
