package returns

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Return struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Customer string          `json:"customer"`
	Items    []Item          `json:"items"`
	Status   Status          `json:"status"`
	Total    decimal.Decimal `json:"total"`
}

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Reason   string          `json:"reason"`
}

// Filter narrows the returns list. Search matches the customer name or the
// return id, case-insensitively. An empty or "all" status matches everything.
type Filter struct {
	Search string
	Status string
}
