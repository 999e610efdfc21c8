package register

import (
	"time"

	"quickcheckout/internal/cart"
	"quickcheckout/internal/pricing"
	"quickcheckout/internal/session"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateScanning        State = "scanning"
	StateAgeVerification State = "age_verification"
	StateReceiptShown    State = "receipt_shown"
	StateComplete        State = "complete"
)

// AgeCheck is the scan held back until the operator checks the customer's ID.
type AgeCheck struct {
	Code        string `json:"code"`
	ProductName string `json:"product_name"`
}

// Override is the open price override overlay.
type Override struct {
	LineID       string          `json:"line_id"`
	ProductName  string          `json:"product_name"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

type Sale struct {
	Number            string            `json:"number"`
	TransactionNumber string            `json:"transaction_number"`
	CompletedAt       time.Time         `json:"completed_at"`
	Operator          string            `json:"operator"`
	Lines             []cart.Line       `json:"lines"`
	Charges           pricing.Breakdown `json:"charges"`
}

type Snapshot struct {
	SessionID  string            `json:"session_id"`
	State      State             `json:"state"`
	Operator   session.Operator  `json:"operator"`
	Lines      []cart.Line       `json:"lines"`
	TotalItems int               `json:"total_items"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Charges    pricing.Breakdown `json:"charges"`
	AgeCheck   *AgeCheck         `json:"age_check,omitempty"`
	Override   *Override         `json:"override,omitempty"`
	Message    string            `json:"message,omitempty"`
	Sale       *Sale             `json:"sale,omitempty"`
}
