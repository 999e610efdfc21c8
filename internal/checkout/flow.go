package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"quickcheckout/internal/cart"
	"quickcheckout/internal/catalog"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/metrics"
	"quickcheckout/internal/pricing"
	"quickcheckout/internal/session"
	"quickcheckout/internal/task"
	"quickcheckout/internal/utils"

	"go.uber.org/zap"
)

const (
	taskCameraScan = "camera-scan"
	taskPayment    = "payment"
)

type Options struct {
	PaymentDelay time.Duration
	ScanDelay    time.Duration
	Calculator   pricing.Calculator
	// Pick chooses the index of the demo barcode a camera scan "sees".
	Pick func(n int) int
}

func DefaultOptions() Options {
	return Options{
		PaymentDelay: 2 * time.Second,
		ScanDelay:    2 * time.Second,
		Calculator:   pricing.DefaultCalculator(),
	}
}

// Flow is the customer self-checkout state machine for one session.
// Every method is safe to call from concurrent goroutines.
type Flow struct {
	id      string
	catalog catalog.Service
	sales   *metrics.Sales
	opts    Options
	tasks   *task.Scheduler

	mu             sync.Mutex
	state          State
	cart           *cart.Cart
	customer       session.Customer
	bagCount       int
	coupon         string
	method         PaymentMethod
	receiptPref    ReceiptPreference
	processing     bool
	cameraScanning bool
	message        string
	receipt        *Receipt
	timer          *metrics.Timer
}

// NewFlow starts a flow on the welcome screen. sales may be nil.
func NewFlow(id string, products catalog.Service, sales *metrics.Sales, opts Options) *Flow {
	if opts.Pick == nil {
		opts.Pick = rand.Intn
	}
	if opts.Calculator.TaxRate.IsZero() && opts.Calculator.BagUnitPrice.IsZero() {
		opts.Calculator = pricing.DefaultCalculator()
	}

	f := &Flow{
		id:      id,
		catalog: products,
		sales:   sales,
		opts:    opts,
		tasks:   task.NewScheduler(),
		cart:    cart.New(),
	}
	f.resetLocked()
	return f
}

func (f *Flow) ID() string { return f.id }

// Close cancels pending timers. The flow must not be used afterwards.
func (f *Flow) Close() {
	f.tasks.Close()
}

func (f *Flow) log(ctx context.Context, method string) *zap.Logger {
	return logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.String("method", method),
		zap.String("flow_id", f.id),
	)
}

func (f *Flow) require(states ...State) error {
	for _, s := range states {
		if f.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidTransition, f.state)
}

func (f *Flow) requireIdlePayment() error {
	if err := f.require(StatePayment); err != nil {
		return err
	}
	if f.processing {
		return ErrPaymentProcessing
	}
	return nil
}

// fail surfaces err as the transient message.
func (f *Flow) fail(err error) error {
	f.message = Message(err)
	return err
}

func (f *Flow) succeed() {
	f.message = ""
}

func (f *Flow) resetLocked() {
	f.state = StateWelcome
	f.cart.Clear()
	f.customer = session.Guest()
	f.bagCount = 0
	f.coupon = ""
	f.method = PaymentCard
	f.receiptPref = ReceiptPreference{Method: ReceiptPrint}
	f.processing = false
	f.cameraScanning = false
	f.message = ""
	f.receipt = nil
	f.timer = nil
}

// Start moves from the welcome screen to customer details.
func (f *Flow) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateWelcome); err != nil {
		return f.fail(err)
	}
	f.state = StateDetails
	f.succeed()
	return nil
}

// Identify resolves how the customer proceeds and always moves on to
// scanning. Optional fields may be empty; a mode without its field falls back
// to guest.
func (f *Flow) Identify(ctx context.Context, in IdentifyInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateDetails); err != nil {
		return f.fail(err)
	}

	mode, err := session.ParseIdentificationMode(in.Mode)
	if err != nil {
		return f.fail(err)
	}

	customer := session.Guest()
	switch mode {
	case session.ModeLoyalty:
		if id := strings.TrimSpace(in.LoyaltyID); id != "" {
			customer = session.Customer{IsLoggedIn: true, Mode: mode, LoyaltyID: id}
		}
	case session.ModePhone:
		if phone := strings.TrimSpace(in.PhoneNumber); phone != "" {
			customer = session.Customer{IsLoggedIn: true, Mode: mode, PhoneNumber: phone}
		}
	case session.ModeGuest:
		if name := strings.TrimSpace(in.Name); in.RegisterLoyalty && name != "" {
			customer = session.Customer{IsLoggedIn: true, Mode: mode, Name: name}
		}
	}

	f.customer = customer
	f.state = StateScanning
	f.timer = metrics.StartTimer()
	f.succeed()

	f.log(ctx, "Identify").Info("customer identified",
		zap.String("mode", string(customer.Mode)),
		zap.Bool("logged_in", customer.IsLoggedIn),
	)
	return nil
}

// Scan resolves code and adds one unit. Weighed products start unverified.
func (f *Flow) Scan(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateScanning); err != nil {
		return f.fail(err)
	}
	return f.scanLocked(ctx, code)
}

func (f *Flow) scanLocked(ctx context.Context, code string) error {
	p, err := f.catalog.FindByCode(ctx, code)
	if err != nil {
		return f.fail(err)
	}

	if err := f.cart.AddItem(cart.NewLine(p, 1, !p.IsWeighed)); err != nil {
		return f.fail(err)
	}

	f.succeed()
	f.log(ctx, "Scan").Debug("item scanned",
		zap.String("product_id", p.ID),
		zap.Int("total_items", f.cart.TotalItems()),
	)
	return nil
}

// StartCameraScan simulates the camera: after the scan delay one of the demo
// barcodes is scanned. Starting again supersedes the pending scan.
func (f *Flow) StartCameraScan(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateScanning); err != nil {
		return f.fail(err)
	}

	logCtx := logger.WithSessionID(context.Background(), f.id)
	f.cameraScanning = true
	f.tasks.Schedule(taskCameraScan, f.opts.ScanDelay, func(tctx context.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if tctx.Err() != nil {
			return
		}
		f.cameraScanning = false
		if f.state != StateScanning {
			return
		}
		code := catalog.DemoCodes[f.opts.Pick(len(catalog.DemoCodes))]
		_ = f.scanLocked(logCtx, code)
	})
	f.succeed()
	return nil
}

func (f *Flow) StopCameraScan(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tasks.Cancel(taskCameraScan)
	f.cameraScanning = false
	return nil
}

func (f *Flow) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateScanning); err != nil {
		return f.fail(err)
	}
	if err := f.cart.UpdateQuantity(lineID, quantity); err != nil {
		return f.fail(err)
	}
	f.succeed()
	return nil
}

func (f *Flow) Remove(ctx context.Context, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateScanning); err != nil {
		return f.fail(err)
	}
	f.cart.RemoveItem(lineID)
	f.succeed()
	return nil
}

func (f *Flow) VerifyWeight(ctx context.Context, lineID string, verified bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateScanning); err != nil {
		return f.fail(err)
	}
	f.cart.VerifyWeight(lineID, verified)
	f.succeed()
	return nil
}

// ProceedToPayment is gated on a non-empty cart. Unverified weights are only
// reported in the snapshot.
func (f *Flow) ProceedToPayment(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateScanning); err != nil {
		return f.fail(err)
	}
	if f.cart.IsEmpty() {
		return f.fail(ErrEmptyCart)
	}

	f.tasks.Cancel(taskCameraScan)
	f.cameraScanning = false
	f.state = StatePayment
	f.succeed()
	return nil
}

// BackToScanner returns to scanning with the cart intact.
func (f *Flow) BackToScanner(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireIdlePayment(); err != nil {
		return f.fail(err)
	}
	f.state = StateScanning
	f.succeed()
	return nil
}

func (f *Flow) SelectPaymentMethod(ctx context.Context, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireIdlePayment(); err != nil {
		return f.fail(err)
	}
	m, err := ParsePaymentMethod(method)
	if err != nil {
		return f.fail(err)
	}
	f.method = m
	f.succeed()
	return nil
}

// ApplyCoupon stores the code. Unknown codes are accepted and discount nothing.
func (f *Flow) ApplyCoupon(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireIdlePayment(); err != nil {
		return f.fail(err)
	}
	f.coupon = strings.TrimSpace(code)
	f.succeed()
	return nil
}

// SetBagCount floors negative counts at zero. Counts above pricing.MaxBags
// return ErrTooManyBags.
func (f *Flow) SetBagCount(ctx context.Context, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireIdlePayment(); err != nil {
		return f.fail(err)
	}
	if n > pricing.MaxBags {
		return f.fail(ErrTooManyBags)
	}
	f.bagCount = pricing.ClampBags(n)
	f.succeed()
	return nil
}

func (f *Flow) AddBag(ctx context.Context) error {
	return f.AdjustBags(ctx, 1)
}

func (f *Flow) RemoveBag(ctx context.Context) error {
	return f.AdjustBags(ctx, -1)
}

// AdjustBags adds delta bags in one step; the count floors at zero.
func (f *Flow) AdjustBags(ctx context.Context, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireIdlePayment(); err != nil {
		return f.fail(err)
	}
	// bagCount never exceeds MaxBags, so bounding delta keeps the sum in range.
	if delta > pricing.MaxBags || delta < -pricing.MaxBags {
		return f.fail(ErrTooManyBags)
	}
	next := pricing.ClampBags(f.bagCount + delta)
	if next > pricing.MaxBags {
		return f.fail(ErrTooManyBags)
	}
	f.bagCount = next
	f.succeed()
	return nil
}

func (f *Flow) SetReceipt(ctx context.Context, method, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireIdlePayment(); err != nil {
		return f.fail(err)
	}
	m, err := ParseReceiptMethod(method)
	if err != nil {
		return f.fail(err)
	}
	pref := ReceiptPreference{Method: m}
	if m == ReceiptEmail {
		pref.Email = strings.TrimSpace(email)
	}
	f.receiptPref = pref
	f.succeed()
	return nil
}

// Pay starts the simulated payment. It always succeeds once the payment delay
// elapses. Paying again while processing supersedes the pending attempt.
func (f *Flow) Pay(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StatePayment); err != nil {
		return f.fail(err)
	}
	if f.cart.IsEmpty() {
		return f.fail(ErrEmptyCart)
	}

	logCtx := logger.WithSessionID(context.Background(), f.id)
	f.processing = true
	f.tasks.Schedule(taskPayment, f.opts.PaymentDelay, func(tctx context.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if tctx.Err() != nil || f.state != StatePayment {
			return
		}
		f.completeLocked(logCtx)
	})
	f.succeed()

	f.log(ctx, "Pay").Info("payment processing started",
		zap.String("payment_method", string(f.method)),
	)
	return nil
}

func (f *Flow) completeLocked(ctx context.Context) {
	lines := f.cart.Lines()
	charges := f.quoteLocked()
	points := int64(0)
	if f.customer.IsLoggedIn {
		points = pricing.RewardPoints(charges.Total)
		f.customer.AddRewardPoints(points)
	}

	f.receipt = &Receipt{
		Number:            utils.GenerateReceiptNumber(),
		TransactionNumber: utils.GenerateTransactionNumber(),
		PaidAt:            time.Now(),
		Lines:             lines,
		Charges:           charges,
		PaymentMethod:     f.method,
		Delivery:          f.receiptPref,
		PointsEarned:      points,
	}
	f.processing = false
	f.state = StateComplete
	f.succeed()

	if f.sales != nil {
		f.sales.Record(charges.Total, f.timer.Duration())
	}

	f.log(ctx, "Pay").Info("payment complete",
		zap.String("receipt", f.receipt.Number),
		zap.String("total", charges.Total.StringFixed(2)),
		zap.Int64("points_earned", points),
	)
}

// NewTransaction clears the cart and all payment state and returns to the
// welcome screen for the next customer.
func (f *Flow) NewTransaction(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.require(StateComplete); err != nil {
		return f.fail(err)
	}
	f.tasks.CancelAll()
	f.resetLocked()
	return nil
}

func (f *Flow) quoteLocked() pricing.Breakdown {
	return f.opts.Calculator.Quote(f.cart.Lines(), pricing.Inputs{
		BagCount:   f.bagCount,
		CouponCode: f.coupon,
	})
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.cart.Snapshot()
	return Snapshot{
		SessionID:         f.id,
		State:             f.state,
		Customer:          f.customer,
		Lines:             snap.Lines,
		TotalItems:        snap.TotalItems,
		Subtotal:          snap.Subtotal,
		Charges:           f.quoteLocked(),
		CouponCode:        f.coupon,
		PaymentMethod:     f.method,
		Receipt:           f.receiptPref,
		Processing:        f.processing,
		CameraScanning:    f.cameraScanning,
		UnverifiedWeights: f.cart.UnverifiedWeights(),
		Message:           f.message,
		Completed:         f.receipt,
	}
}
