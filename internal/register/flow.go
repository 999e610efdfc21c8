package register

import (
	"context"
	"errors"
	"fmt"
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

const taskReceipt = "receipt"

type Options struct {
	ReceiptDelay time.Duration
	Calculator   pricing.Calculator
}

func DefaultOptions() Options {
	return Options{
		ReceiptDelay: 2 * time.Second,
		Calculator:   pricing.DefaultCalculator(),
	}
}

// Flow is the staff register for one operator session. Staff sales carry no
// bags and no coupon.
type Flow struct {
	id       string
	operator session.Operator
	catalog  catalog.Service
	sales    *metrics.Sales
	opts     Options
	tasks    *task.Scheduler

	mu       sync.Mutex
	state    State
	cart     *cart.Cart
	ageCheck *AgeCheck
	override *Override
	message  string
	sale     *Sale
	timer    *metrics.Timer
}

// NewFlow opens a register in the scanning state for operator. sales may be nil.
func NewFlow(id string, operator session.Operator, products catalog.Service, sales *metrics.Sales, opts Options) *Flow {
	if opts.Calculator.TaxRate.IsZero() && opts.Calculator.BagUnitPrice.IsZero() {
		opts.Calculator = pricing.DefaultCalculator()
	}

	f := &Flow{
		id:       id,
		operator: operator,
		catalog:  products,
		sales:    sales,
		opts:     opts,
		tasks:    task.NewScheduler(),
		cart:     cart.New(),
	}
	f.resetLocked()
	return f
}

func (f *Flow) ID() string { return f.id }

func (f *Flow) Operator() session.Operator { return f.operator }

// Close cancels a pending receipt timer. The flow must not be used afterwards.
func (f *Flow) Close() {
	f.tasks.Close()
}

func (f *Flow) log(ctx context.Context, method string) *zap.Logger {
	return logger.FromCtx(ctx).With(
		zap.String("layer", "register"),
		zap.String("method", method),
		zap.String("employee_id", f.operator.EmployeeID),
	)
}

func (f *Flow) resetLocked() {
	f.state = StateScanning
	f.cart.Clear()
	f.ageCheck = nil
	f.override = nil
	f.message = ""
	f.sale = nil
	f.timer = metrics.StartTimer()
}

func (f *Flow) fail(err error) error {
	f.message = Message(err)
	return err
}

func (f *Flow) succeed() {
	f.message = ""
}

// requireMutable reports whether the cart may change in the current state.
func (f *Flow) requireMutable() error {
	switch f.state {
	case StateScanning:
		return nil
	case StateAgeVerification:
		return ErrAgeVerificationPending
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTransition, f.state)
	}
}

// Scan adds one unit of the product. Age-restricted products are held until
// the operator confirms the customer's age.
func (f *Flow) Scan(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireMutable(); err != nil {
		return f.fail(err)
	}

	p, err := f.catalog.FindByCode(ctx, code)
	if err != nil {
		return f.fail(err)
	}

	if p.IsAgeRestricted() {
		f.state = StateAgeVerification
		f.ageCheck = &AgeCheck{Code: p.Code, ProductName: p.Name}
		f.succeed()
		f.log(ctx, "Scan").Info("age verification required", zap.String("product_id", p.ID))
		return nil
	}

	return f.addLocked(p)
}

func (f *Flow) addLocked(p *catalog.Product) error {
	if err := f.cart.AddItem(cart.NewLine(p, 1, true)); err != nil {
		return f.fail(err)
	}
	f.succeed()
	return nil
}

// ConfirmAge adds the held product and returns to scanning.
func (f *Flow) ConfirmAge(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAgeVerification {
		return f.fail(fmt.Errorf("%w: %s", ErrInvalidTransition, f.state))
	}

	pending := f.ageCheck
	f.ageCheck = nil
	f.state = StateScanning

	p, err := f.catalog.FindByCode(ctx, pending.Code)
	if err != nil {
		return f.fail(err)
	}

	f.log(ctx, "ConfirmAge").Info("age verified", zap.String("product_id", p.ID))
	return f.addLocked(p)
}

// CancelAge discards the held scan.
func (f *Flow) CancelAge(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAgeVerification {
		return f.fail(fmt.Errorf("%w: %s", ErrInvalidTransition, f.state))
	}
	f.ageCheck = nil
	f.state = StateScanning
	f.succeed()
	return nil
}

// OpenOverride opens the price override overlay on lineID. Opening it on
// another line retargets the overlay.
func (f *Flow) OpenOverride(ctx context.Context, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireMutable(); err != nil {
		return f.fail(err)
	}
	if !f.operator.Role.CanOverridePrice() {
		f.log(ctx, "OpenOverride").Warn("price override denied",
			zap.String("role", f.operator.Role.String()),
		)
		return f.fail(ErrOverrideNotPermitted)
	}

	line, ok := f.cart.Line(lineID)
	if !ok {
		return f.fail(cart.ErrLineNotFound)
	}

	f.override = &Override{LineID: line.ID, ProductName: line.Name, CurrentPrice: line.Price}
	f.succeed()
	return nil
}

// SubmitOverride sets the overridden line's unit price. Invalid input keeps
// the overlay open.
func (f *Flow) SubmitOverride(ctx context.Context, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireMutable(); err != nil {
		return f.fail(err)
	}
	if f.override == nil {
		return f.fail(ErrNoOverrideOpen)
	}

	lineID := f.override.LineID
	err := f.cart.SetLinePrice(lineID, raw)
	switch {
	case errors.Is(err, cart.ErrInvalidPrice):
		return f.fail(errors.Join(ErrInvalidOverridePrice, err))
	case err != nil:
		f.override = nil
		return f.fail(err)
	}

	f.override = nil
	f.succeed()

	line, _ := f.cart.Line(lineID)
	f.log(ctx, "SubmitOverride").Info("price overridden",
		zap.String("line_id", lineID),
		zap.String("price", line.Price.StringFixed(2)),
	)
	return nil
}

// SetQuantity removes the line when quantity <= 0.
func (f *Flow) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireMutable(); err != nil {
		return f.fail(err)
	}
	if err := f.cart.UpdateQuantity(lineID, quantity); err != nil {
		return f.fail(err)
	}
	f.dropOverrideIfGone()
	f.succeed()
	return nil
}

func (f *Flow) Remove(ctx context.Context, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireMutable(); err != nil {
		return f.fail(err)
	}
	f.cart.RemoveItem(lineID)
	f.dropOverrideIfGone()
	f.succeed()
	return nil
}

func (f *Flow) dropOverrideIfGone() {
	if f.override == nil {
		return
	}
	if _, ok := f.cart.Line(f.override.LineID); !ok {
		f.override = nil
	}
}

// Void empties the cart and stays on the scanner.
func (f *Flow) Void(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireMutable(); err != nil {
		return f.fail(err)
	}

	items := f.cart.TotalItems()
	f.cart.Clear()
	f.override = nil
	f.succeed()

	f.log(ctx, "Void").Info("transaction voided", zap.Int("items", items))
	return nil
}

// CompleteSale shows the receipt and records the sale. The register moves to
// complete on its own once the receipt delay elapses.
func (f *Flow) CompleteSale(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireMutable(); err != nil {
		return f.fail(err)
	}
	if f.cart.IsEmpty() {
		return f.fail(ErrEmptyCart)
	}

	charges := f.quoteLocked()
	f.sale = &Sale{
		Number:            utils.GenerateReceiptNumber(),
		TransactionNumber: utils.GenerateTransactionNumber(),
		CompletedAt:       time.Now(),
		Operator:          f.operator.EmployeeID,
		Lines:             f.cart.Lines(),
		Charges:           charges,
	}
	f.override = nil
	f.state = StateReceiptShown
	f.succeed()

	if f.sales != nil {
		f.sales.Record(charges.Total, f.timer.Duration())
	}

	f.tasks.Schedule(taskReceipt, f.opts.ReceiptDelay, func(tctx context.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if tctx.Err() != nil || f.state != StateReceiptShown {
			return
		}
		f.state = StateComplete
	})

	f.log(ctx, "CompleteSale").Info("sale completed",
		zap.String("receipt", f.sale.Number),
		zap.String("total", charges.Total.StringFixed(2)),
	)
	return nil
}

// NewTransaction starts over on an empty scanner.
func (f *Flow) NewTransaction(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateComplete && f.state != StateReceiptShown {
		return f.fail(fmt.Errorf("%w: %s", ErrInvalidTransition, f.state))
	}
	f.tasks.CancelAll()
	f.resetLocked()
	return nil
}

func (f *Flow) quoteLocked() pricing.Breakdown {
	return f.opts.Calculator.Quote(f.cart.Lines(), pricing.Inputs{})
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.cart.Snapshot()
	out := Snapshot{
		SessionID:  f.id,
		State:      f.state,
		Operator:   f.operator,
		Lines:      snap.Lines,
		TotalItems: snap.TotalItems,
		Subtotal:   snap.Subtotal,
		Charges:    f.quoteLocked(),
		Message:    f.message,
		Sale:       f.sale,
	}
	if f.ageCheck != nil {
		a := *f.ageCheck
		out.AgeCheck = &a
	}
	if f.override != nil {
		o := *f.override
		out.Override = &o
	}
	return out
}
