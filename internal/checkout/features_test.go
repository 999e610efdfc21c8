package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quickcheckout/internal/catalog"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/metrics"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type kioskTestContext struct {
	flow *Flow
	err  error
}

func (c *kioskTestContext) reset() {
	if c.flow != nil {
		c.flow.Close()
	}
	c.flow = nil
	c.err = nil
}

func (c *kioskTestContext) aSelfCheckoutKiosk() error {
	c.reset()
	c.flow = NewFlow("kiosk", catalog.NewService(catalog.NewDemoRepository()), metrics.NewSales(), Options{
		PaymentDelay: time.Millisecond,
		ScanDelay:    time.Millisecond,
		Pick:         func(int) int { return 0 },
	})
	return nil
}

func (c *kioskTestContext) theCustomerStartsCheckingOutAs(mode string) error {
	return c.checkIn(IdentifyInput{Mode: mode})
}

func (c *kioskTestContext) theCustomerStartsCheckingOutAsWith(mode, value string) error {
	in := IdentifyInput{Mode: mode}
	switch mode {
	case "loyalty":
		in.LoyaltyID = value
	case "phone":
		in.PhoneNumber = value
	default:
		in.Name = value
		in.RegisterLoyalty = true
	}
	return c.checkIn(in)
}

func (c *kioskTestContext) checkIn(in IdentifyInput) error {
	ctx := context.Background()
	if err := c.flow.Start(ctx); err != nil {
		return err
	}
	return c.flow.Identify(ctx, in)
}

func (c *kioskTestContext) theCustomerScans(code string) error {
	c.err = c.flow.Scan(context.Background(), code)
	return nil
}

func (c *kioskTestContext) theCustomerSetsLineToUnits(lineID string, qty int) error {
	return c.flow.SetQuantity(context.Background(), lineID, qty)
}

func (c *kioskTestContext) theCustomerProceedsToPayment() error {
	c.err = c.flow.ProceedToPayment(context.Background())
	return nil
}

func (c *kioskTestContext) theCustomerAppliesCoupon(code string) error {
	return c.flow.ApplyCoupon(context.Background(), code)
}

func (c *kioskTestContext) theCustomerAddsBags(n int) error {
	return c.flow.SetBagCount(context.Background(), n)
}

func (c *kioskTestContext) theCustomerPaysBy(method string) error {
	ctx := context.Background()
	if err := c.flow.SelectPaymentMethod(ctx, method); err != nil {
		return err
	}
	return c.flow.Pay(ctx)
}

func (c *kioskTestContext) thePaymentCompletes() error {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.flow.Snapshot().State == StateComplete {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return fmt.Errorf("payment still pending, state %s", c.flow.Snapshot().State)
}

func (c *kioskTestContext) theCustomerStartsANewTransaction() error {
	return c.flow.NewTransaction(context.Background())
}

func (c *kioskTestContext) theCartHasLines(n int) error {
	if got := len(c.flow.Snapshot().Lines); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *kioskTestContext) theCartHoldsItems(n int) error {
	if got := c.flow.Snapshot().TotalItems; got != n {
		return fmt.Errorf("expected %d items, got %d", n, got)
	}
	return nil
}

func (c *kioskTestContext) theKioskShowsTheScreen(state string) error {
	if got := c.flow.Snapshot().State; string(got) != state {
		return fmt.Errorf("expected %s screen, got %s", state, got)
	}
	return nil
}

func (c *kioskTestContext) theMessageIs(msg string) error {
	if got := c.flow.Snapshot().Message; got != msg {
		return fmt.Errorf("expected message %q, got %q", msg, got)
	}
	return nil
}

func amountIs(name string, got decimal.Decimal, want string) error {
	if got.StringFixed(2) != want {
		return fmt.Errorf("expected %s %s, got %s", name, want, got.StringFixed(2))
	}
	return nil
}

func (c *kioskTestContext) theSubtotalIs(want string) error {
	return amountIs("subtotal", c.flow.Snapshot().Subtotal, want)
}

func (c *kioskTestContext) theTaxIs(want string) error {
	return amountIs("tax", c.flow.Snapshot().Charges.Tax, want)
}

func (c *kioskTestContext) theDiscountIs(want string) error {
	return amountIs("discount", c.flow.Snapshot().Charges.Discount, want)
}

func (c *kioskTestContext) theTotalIs(want string) error {
	return amountIs("total", c.flow.Snapshot().Charges.Total, want)
}

func (c *kioskTestContext) theReceiptTotalIs(want string) error {
	receipt := c.flow.Snapshot().Completed
	if receipt == nil {
		return fmt.Errorf("no receipt")
	}
	return amountIs("receipt total", receipt.Charges.Total, want)
}

func (c *kioskTestContext) theCustomerEarnedRewardPoints(n int) error {
	if got := c.flow.Snapshot().Customer.RewardPoints; got != int64(n) {
		return fmt.Errorf("expected %d reward points, got %d", n, got)
	}
	return nil
}

func InitializeKioskScenario(ctx *godog.ScenarioContext) {
	tc := &kioskTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a self-checkout kiosk$`, tc.aSelfCheckoutKiosk)
	ctx.Step(`^the customer starts checking out as "([^"]*)"$`, tc.theCustomerStartsCheckingOutAs)
	ctx.Step(`^the customer starts checking out as "([^"]*)" with "([^"]*)"$`, tc.theCustomerStartsCheckingOutAsWith)

	// When steps
	ctx.Step(`^the customer scans "([^"]*)"$`, tc.theCustomerScans)
	ctx.Step(`^the customer sets line "([^"]*)" to (\d+) units$`, tc.theCustomerSetsLineToUnits)
	ctx.Step(`^the customer proceeds to payment$`, tc.theCustomerProceedsToPayment)
	ctx.Step(`^the customer applies coupon "([^"]*)"$`, tc.theCustomerAppliesCoupon)
	ctx.Step(`^the customer adds (\d+) bags?$`, tc.theCustomerAddsBags)
	ctx.Step(`^the customer pays by "([^"]*)"$`, tc.theCustomerPaysBy)
	ctx.Step(`^the customer starts a new transaction$`, tc.theCustomerStartsANewTransaction)

	// Then steps
	ctx.Step(`^the payment completes$`, tc.thePaymentCompletes)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) items?$`, tc.theCartHoldsItems)
	ctx.Step(`^the kiosk shows the "([^"]*)" screen$`, tc.theKioskShowsTheScreen)
	ctx.Step(`^the message is "([^"]*)"$`, tc.theMessageIs)
	ctx.Step(`^the subtotal is "([^"]*)"$`, tc.theSubtotalIs)
	ctx.Step(`^the tax is "([^"]*)"$`, tc.theTaxIs)
	ctx.Step(`^the discount is "([^"]*)"$`, tc.theDiscountIs)
	ctx.Step(`^the total is "([^"]*)"$`, tc.theTotalIs)
	ctx.Step(`^the receipt total is "([^"]*)"$`, tc.theReceiptTotalIs)
	ctx.Step(`^the customer earned (\d+) reward points?$`, tc.theCustomerEarnedRewardPoints)
}

func TestFeatures(t *testing.T) {
	t.Cleanup(logger.Replace(zap.NewNop()))

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeKioskScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
