package register

import (
	"context"
	"testing"
	"time"

	"quickcheckout/internal/cart"
	"quickcheckout/internal/catalog"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/metrics"
	"quickcheckout/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFlow(t *testing.T, role session.Role) (*Flow, *metrics.Sales) {
	t.Helper()
	t.Cleanup(logger.Replace(zap.NewNop()))

	op := session.Operator{IsLoggedIn: true, EmployeeID: "EMP001", Name: "Staff Member", Role: role}
	sales := metrics.NewSales()
	f := NewFlow("reg-1", op, catalog.NewService(catalog.NewDemoRepository()), sales, Options{
		ReceiptDelay: time.Millisecond,
	})
	t.Cleanup(f.Close)
	return f, sales
}

func TestFlow_Scan(t *testing.T) {
	f, _ := newTestFlow(t, session.RoleCashier)
	ctx := context.Background()

	assert.Equal(t, StateScanning, f.Snapshot().State)

	require.NoError(t, f.Scan(ctx, "4011"))
	require.NoError(t, f.Scan(ctx, "4011"))
	snap := f.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.True(t, snap.Lines[0].IsWeightVerified)

	assert.ErrorIs(t, f.Scan(ctx, "0000"), catalog.ErrProductNotFound)
	assert.Equal(t, "Product not found", f.Snapshot().Message)

	require.NoError(t, f.Scan(ctx, "2390"))
	assert.Empty(t, f.Snapshot().Message)
}

func TestFlow_AgeVerification(t *testing.T) {
	t.Run("confirm adds the held product", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleCashier)
		ctx := context.Background()

		require.NoError(t, f.Scan(ctx, "9012"))
		snap := f.Snapshot()
		assert.Equal(t, StateAgeVerification, snap.State)
		require.NotNil(t, snap.AgeCheck)
		assert.Equal(t, "9012", snap.AgeCheck.Code)
		assert.Empty(t, snap.Lines)

		require.NoError(t, f.ConfirmAge(ctx))
		snap = f.Snapshot()
		assert.Equal(t, StateScanning, snap.State)
		assert.Nil(t, snap.AgeCheck)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "5", snap.Lines[0].ID)
	})

	t.Run("cancel discards it", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleCashier)
		ctx := context.Background()

		require.NoError(t, f.Scan(ctx, "9012"))
		require.NoError(t, f.CancelAge(ctx))
		snap := f.Snapshot()
		assert.Equal(t, StateScanning, snap.State)
		assert.Empty(t, snap.Lines)
	})

	t.Run("cart is locked while pending", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleManager)
		ctx := context.Background()
		require.NoError(t, f.Scan(ctx, "2390"))
		require.NoError(t, f.Scan(ctx, "9012"))

		assert.ErrorIs(t, f.Scan(ctx, "2390"), ErrAgeVerificationPending)
		assert.ErrorIs(t, f.SetQuantity(ctx, "3", 5), ErrAgeVerificationPending)
		assert.ErrorIs(t, f.Remove(ctx, "3"), ErrAgeVerificationPending)
		assert.ErrorIs(t, f.Void(ctx), ErrAgeVerificationPending)
		assert.ErrorIs(t, f.OpenOverride(ctx, "3"), ErrAgeVerificationPending)
		assert.ErrorIs(t, f.CompleteSale(ctx), ErrAgeVerificationPending)
		assert.Equal(t, 1, f.Snapshot().TotalItems)
	})

	t.Run("confirm outside verification", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleCashier)
		assert.ErrorIs(t, f.ConfirmAge(context.Background()), ErrInvalidTransition)
		assert.ErrorIs(t, f.CancelAge(context.Background()), ErrInvalidTransition)
	})
}

func TestFlow_PriceOverride(t *testing.T) {
	t.Run("cashier cannot open the overlay", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleCashier)
		ctx := context.Background()
		require.NoError(t, f.Scan(ctx, "2390"))

		assert.ErrorIs(t, f.OpenOverride(ctx, "3"), ErrOverrideNotPermitted)
		assert.Nil(t, f.Snapshot().Override)
	})

	for _, role := range []session.Role{session.RoleSupervisor, session.RoleManager} {
		t.Run(role.String()+" overrides a price", func(t *testing.T) {
			f, _ := newTestFlow(t, role)
			ctx := context.Background()
			require.NoError(t, f.Scan(ctx, "2390"))

			require.NoError(t, f.OpenOverride(ctx, "3"))
			snap := f.Snapshot()
			require.NotNil(t, snap.Override)
			assert.Equal(t, "4.99", snap.Override.CurrentPrice.StringFixed(2))

			require.NoError(t, f.SubmitOverride(ctx, "3.50"))
			snap = f.Snapshot()
			assert.Nil(t, snap.Override)
			assert.Equal(t, "3.50", snap.Lines[0].Price.StringFixed(2))
		})
	}

	t.Run("invalid input keeps the overlay open", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleSupervisor)
		ctx := context.Background()
		require.NoError(t, f.Scan(ctx, "2390"))
		require.NoError(t, f.OpenOverride(ctx, "3"))

		for _, raw := range []string{"abc", "", "-1"} {
			err := f.SubmitOverride(ctx, raw)
			assert.ErrorIs(t, err, ErrInvalidOverridePrice)
			assert.ErrorIs(t, err, cart.ErrInvalidPrice)
		}
		snap := f.Snapshot()
		assert.NotNil(t, snap.Override)
		assert.Equal(t, "Please enter a valid price", snap.Message)
		assert.Equal(t, "4.99", snap.Lines[0].Price.StringFixed(2))
	})

	t.Run("opening on another line retargets", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleManager)
		ctx := context.Background()
		require.NoError(t, f.Scan(ctx, "2390"))
		require.NoError(t, f.Scan(ctx, "3456"))

		require.NoError(t, f.OpenOverride(ctx, "3"))
		require.NoError(t, f.OpenOverride(ctx, "4"))
		assert.Equal(t, "4", f.Snapshot().Override.LineID)
	})

	t.Run("removing the line closes the overlay", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleManager)
		ctx := context.Background()
		require.NoError(t, f.Scan(ctx, "2390"))
		require.NoError(t, f.OpenOverride(ctx, "3"))

		require.NoError(t, f.SetQuantity(ctx, "3", 0))
		assert.Nil(t, f.Snapshot().Override)
		assert.ErrorIs(t, f.SubmitOverride(ctx, "1.00"), ErrNoOverrideOpen)
	})

	t.Run("unknown line", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleManager)
		assert.ErrorIs(t, f.OpenOverride(context.Background(), "99"), cart.ErrLineNotFound)
	})
}

func TestFlow_Void(t *testing.T) {
	f, _ := newTestFlow(t, session.RoleSupervisor)
	ctx := context.Background()
	require.NoError(t, f.Scan(ctx, "2390"))
	require.NoError(t, f.Scan(ctx, "8005"))
	require.NoError(t, f.OpenOverride(ctx, "2"))

	require.NoError(t, f.Void(ctx))

	snap := f.Snapshot()
	assert.Equal(t, StateScanning, snap.State)
	assert.Empty(t, snap.Lines)
	assert.Nil(t, snap.Override)
}

func TestFlow_CompleteSale(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleCashier)
		assert.ErrorIs(t, f.CompleteSale(context.Background()), ErrEmptyCart)
		assert.Equal(t, StateScanning, f.Snapshot().State)
	})

	t.Run("receipt then complete", func(t *testing.T) {
		f, sales := newTestFlow(t, session.RoleCashier)
		ctx := context.Background()
		require.NoError(t, f.Scan(ctx, "4011"))

		require.NoError(t, f.CompleteSale(ctx))
		snap := f.Snapshot()
		require.NotNil(t, snap.Sale)
		assert.Equal(t, "EMP001", snap.Sale.Operator)
		assert.Equal(t, "2.13", snap.Sale.Charges.Total.StringFixed(2))
		assert.Zero(t, snap.Sale.Charges.BagCount)
		assert.True(t, snap.Sale.Charges.Discount.IsZero())

		assert.Eventually(t, func() bool {
			return f.Snapshot().State == StateComplete
		}, time.Second, time.Millisecond)

		stats := sales.Snapshot()
		assert.Equal(t, uint64(1), stats.CustomersServed)
		assert.Equal(t, "2.13", stats.TodaysSales.StringFixed(2))

		assert.ErrorIs(t, f.Scan(ctx, "4011"), ErrInvalidTransition)
	})

	t.Run("new transaction from the receipt cancels the timer", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleCashier)
		f.opts.ReceiptDelay = time.Hour
		ctx := context.Background()
		require.NoError(t, f.Scan(ctx, "2390"))
		require.NoError(t, f.CompleteSale(ctx))
		assert.Equal(t, StateReceiptShown, f.Snapshot().State)

		require.NoError(t, f.NewTransaction(ctx))
		snap := f.Snapshot()
		assert.Equal(t, StateScanning, snap.State)
		assert.Empty(t, snap.Lines)
		assert.Nil(t, snap.Sale)
		assert.False(t, f.tasks.Pending(taskReceipt))
	})

	t.Run("new transaction while scanning", func(t *testing.T) {
		f, _ := newTestFlow(t, session.RoleCashier)
		assert.ErrorIs(t, f.NewTransaction(context.Background()), ErrInvalidTransition)
	})
}
