package checkout

import (
	"fmt"
	"strings"
	"time"

	"quickcheckout/internal/cart"
	"quickcheckout/internal/pricing"
	"quickcheckout/internal/session"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateWelcome  State = "welcome"
	StateDetails  State = "details"
	StateScanning State = "scanning"
	StatePayment  State = "payment"
	StateComplete State = "complete"
)

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentCash   PaymentMethod = "cash"
	PaymentMobile PaymentMethod = "mobile"
	PaymentGift   PaymentMethod = "gift"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCard, PaymentCash, PaymentMobile, PaymentGift:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
	}
}

type ReceiptMethod string

const (
	ReceiptPrint ReceiptMethod = "print"
	ReceiptEmail ReceiptMethod = "email"
	ReceiptNone  ReceiptMethod = "none"
)

func ParseReceiptMethod(s string) (ReceiptMethod, error) {
	switch m := ReceiptMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case ReceiptPrint, ReceiptEmail, ReceiptNone:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReceiptMethod, s)
	}
}

type ReceiptPreference struct {
	Method ReceiptMethod `json:"method"`
	Email  string        `json:"email,omitempty"`
}

type IdentifyInput struct {
	Mode            string `json:"mode"`
	LoyaltyID       string `json:"loyalty_id"`
	PhoneNumber     string `json:"phone_number"`
	Name            string `json:"name"`
	RegisterLoyalty bool   `json:"register_loyalty"`
}

// Receipt is frozen when the simulated payment completes.
type Receipt struct {
	Number            string            `json:"number"`
	TransactionNumber string            `json:"transaction_number"`
	PaidAt            time.Time         `json:"paid_at"`
	Lines             []cart.Line       `json:"lines"`
	Charges           pricing.Breakdown `json:"charges"`
	PaymentMethod     PaymentMethod     `json:"payment_method"`
	Delivery          ReceiptPreference `json:"delivery"`
	PointsEarned      int64             `json:"points_earned"`
}

type Snapshot struct {
	SessionID         string            `json:"session_id"`
	State             State             `json:"state"`
	Customer          session.Customer  `json:"customer"`
	Lines             []cart.Line       `json:"lines"`
	TotalItems        int               `json:"total_items"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	Charges           pricing.Breakdown `json:"charges"`
	CouponCode        string            `json:"coupon_code,omitempty"`
	PaymentMethod     PaymentMethod     `json:"payment_method"`
	Receipt           ReceiptPreference `json:"receipt"`
	Processing        bool              `json:"processing"`
	CameraScanning    bool              `json:"camera_scanning"`
	UnverifiedWeights []string          `json:"unverified_weights,omitempty"`
	Message           string            `json:"message,omitempty"`
	Completed         *Receipt          `json:"completed,omitempty"`
}
