package api

import (
	"time"

	"quickcheckout/internal/cart"
	"quickcheckout/internal/catalog"
	"quickcheckout/internal/checkout"
	"quickcheckout/internal/metrics"
	"quickcheckout/internal/pricing"
	"quickcheckout/internal/register"
	"quickcheckout/internal/returns"
	"quickcheckout/internal/session"

	"github.com/shopspring/decimal"
)

// Amounts go over the wire as fixed two-place strings.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

type ProductDTO struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Price          string  `json:"price"`
	Image          string  `json:"image"`
	Weight         *string `json:"weight,omitempty"`
	IsWeighed      bool    `json:"is_weighed"`
	AgeRestricted  bool    `json:"age_restricted"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
}

func toProductDTO(p *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Price:          money(p.Price),
		Image:          p.Image,
		Weight:         optionalAmount(p.Weight),
		IsWeighed:      p.IsWeighed,
		AgeRestricted:  p.IsAgeRestricted(),
		ExpirationDate: optionalDate(p.ExpirationDate),
	}
}

func toProductDTOs(products []*catalog.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

type LineDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            string  `json:"price"`
	Quantity         int     `json:"quantity"`
	Total            string  `json:"total"`
	Image            string  `json:"image"`
	Weight           *string `json:"weight,omitempty"`
	ExpirationDate   string  `json:"expiration_date,omitempty"`
	IsWeightVerified bool    `json:"is_weight_verified"`
}

func toLineDTOs(lines []cart.Line) []LineDTO {
	out := make([]LineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineDTO{
			ID:               l.ID,
			Name:             l.Name,
			Price:            money(l.Price),
			Quantity:         l.Quantity,
			Total:            money(l.Total()),
			Image:            l.Image,
			Weight:           optionalAmount(l.Weight),
			ExpirationDate:   optionalDate(l.ExpirationDate),
			IsWeightVerified: l.IsWeightVerified,
		})
	}
	return out
}

type ChargesDTO struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	BagCount int    `json:"bag_count"`
	BagTotal string `json:"bag_total"`
	Coupon   string `json:"coupon,omitempty"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

func toChargesDTO(b pricing.Breakdown) ChargesDTO {
	return ChargesDTO{
		Subtotal: money(b.Subtotal),
		Tax:      money(b.Tax),
		BagCount: b.BagCount,
		BagTotal: money(b.BagTotal),
		Coupon:   b.Coupon,
		Discount: money(b.Discount),
		Total:    money(b.Total),
	}
}

type CustomerDTO struct {
	IsLoggedIn   bool   `json:"is_logged_in"`
	Mode         string `json:"mode"`
	LoyaltyID    string `json:"loyalty_id,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Name         string `json:"name,omitempty"`
	RewardPoints int64  `json:"reward_points"`
}

func toCustomerDTO(c session.Customer) CustomerDTO {
	return CustomerDTO{
		IsLoggedIn:   c.IsLoggedIn,
		Mode:         string(c.Mode),
		LoyaltyID:    c.LoyaltyID,
		PhoneNumber:  c.PhoneNumber,
		Name:         c.Name,
		RewardPoints: c.RewardPoints,
	}
}

type ReceiptDTO struct {
	Number            string     `json:"number"`
	TransactionNumber string     `json:"transaction_number"`
	PaidAt            time.Time  `json:"paid_at"`
	Lines             []LineDTO  `json:"lines"`
	Charges           ChargesDTO `json:"charges"`
	PaymentMethod     string     `json:"payment_method"`
	Delivery          string     `json:"delivery"`
	Email             string     `json:"email,omitempty"`
	PointsEarned      int64      `json:"points_earned"`
}

func toReceiptDTO(r *checkout.Receipt) *ReceiptDTO {
	if r == nil {
		return nil
	}
	return &ReceiptDTO{
		Number:            r.Number,
		TransactionNumber: r.TransactionNumber,
		PaidAt:            r.PaidAt,
		Lines:             toLineDTOs(r.Lines),
		Charges:           toChargesDTO(r.Charges),
		PaymentMethod:     string(r.PaymentMethod),
		Delivery:          string(r.Delivery.Method),
		Email:             r.Delivery.Email,
		PointsEarned:      r.PointsEarned,
	}
}

type CheckoutDTO struct {
	SessionID         string      `json:"session_id"`
	State             string      `json:"state"`
	Customer          CustomerDTO `json:"customer"`
	Lines             []LineDTO   `json:"lines"`
	TotalItems        int         `json:"total_items"`
	Subtotal          string      `json:"subtotal"`
	Charges           ChargesDTO  `json:"charges"`
	CouponCode        string      `json:"coupon_code,omitempty"`
	PaymentMethod     string      `json:"payment_method"`
	ReceiptMethod     string      `json:"receipt_method"`
	ReceiptEmail      string      `json:"receipt_email,omitempty"`
	Processing        bool        `json:"processing"`
	CameraScanning    bool        `json:"camera_scanning"`
	UnverifiedWeights []string    `json:"unverified_weights"`
	Message           string      `json:"message,omitempty"`
	Receipt           *ReceiptDTO `json:"receipt,omitempty"`
}

func toCheckoutDTO(s checkout.Snapshot) CheckoutDTO {
	unverified := s.UnverifiedWeights
	if unverified == nil {
		unverified = []string{}
	}
	return CheckoutDTO{
		SessionID:         s.SessionID,
		State:             string(s.State),
		Customer:          toCustomerDTO(s.Customer),
		Lines:             toLineDTOs(s.Lines),
		TotalItems:        s.TotalItems,
		Subtotal:          money(s.Subtotal),
		Charges:           toChargesDTO(s.Charges),
		CouponCode:        s.CouponCode,
		PaymentMethod:     string(s.PaymentMethod),
		ReceiptMethod:     string(s.Receipt.Method),
		ReceiptEmail:      s.Receipt.Email,
		Processing:        s.Processing,
		CameraScanning:    s.CameraScanning,
		UnverifiedWeights: unverified,
		Message:           s.Message,
		Receipt:           toReceiptDTO(s.Completed),
	}
}

type OperatorDTO struct {
	EmployeeID       string `json:"employee_id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	CanOverridePrice bool   `json:"can_override_price"`
}

func toOperatorDTO(op session.Operator) OperatorDTO {
	return OperatorDTO{
		EmployeeID:       op.EmployeeID,
		Name:             op.Name,
		Role:             op.Role.String(),
		CanOverridePrice: op.Role.CanOverridePrice(),
	}
}

type OverrideDTO struct {
	LineID       string `json:"line_id"`
	ProductName  string `json:"product_name"`
	CurrentPrice string `json:"current_price"`
}

type SaleDTO struct {
	Number            string     `json:"number"`
	TransactionNumber string     `json:"transaction_number"`
	CompletedAt       time.Time  `json:"completed_at"`
	Lines             []LineDTO  `json:"lines"`
	Charges           ChargesDTO `json:"charges"`
}

type RegisterDTO struct {
	SessionID  string             `json:"session_id"`
	State      string             `json:"state"`
	Operator   OperatorDTO        `json:"operator"`
	Lines      []LineDTO          `json:"lines"`
	TotalItems int                `json:"total_items"`
	Subtotal   string             `json:"subtotal"`
	Charges    ChargesDTO         `json:"charges"`
	AgeCheck   *register.AgeCheck `json:"age_check,omitempty"`
	Override   *OverrideDTO       `json:"override,omitempty"`
	Message    string             `json:"message,omitempty"`
	Sale       *SaleDTO           `json:"sale,omitempty"`
}

func toRegisterDTO(s register.Snapshot) RegisterDTO {
	dto := RegisterDTO{
		SessionID:  s.SessionID,
		State:      string(s.State),
		Operator:   toOperatorDTO(s.Operator),
		Lines:      toLineDTOs(s.Lines),
		TotalItems: s.TotalItems,
		Subtotal:   money(s.Subtotal),
		Charges:    toChargesDTO(s.Charges),
		AgeCheck:   s.AgeCheck,
		Message:    s.Message,
	}
	if o := s.Override; o != nil {
		dto.Override = &OverrideDTO{
			LineID:       o.LineID,
			ProductName:  o.ProductName,
			CurrentPrice: money(o.CurrentPrice),
		}
	}
	if sale := s.Sale; sale != nil {
		dto.Sale = &SaleDTO{
			Number:            sale.Number,
			TransactionNumber: sale.TransactionNumber,
			CompletedAt:       sale.CompletedAt,
			Lines:             toLineDTOs(sale.Lines),
			Charges:           toChargesDTO(sale.Charges),
		}
	}
	return dto
}

type StatsDTO struct {
	Day                           string  `json:"day"`
	TodaysSales                   string  `json:"todays_sales"`
	CustomersServed               uint64  `json:"customers_served"`
	AverageTransactionTimeSeconds float64 `json:"average_transaction_time_seconds"`
}

func toStatsDTO(s metrics.Stats) StatsDTO {
	return StatsDTO{
		Day:                           s.Day,
		TodaysSales:                   money(s.TodaysSales),
		CustomersServed:               s.CustomersServed,
		AverageTransactionTimeSeconds: s.AverageTransactionTime.Seconds(),
	}
}

type ReturnItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

type ReturnDTO struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Customer string          `json:"customer"`
	Items    []ReturnItemDTO `json:"items"`
	Status   string          `json:"status"`
	Total    string          `json:"total"`
}

func toReturnDTO(r *returns.Return) ReturnDTO {
	items := make([]ReturnItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ReturnItemDTO{
			ID:       it.ID,
			Name:     it.Name,
			Price:    money(it.Price),
			Quantity: it.Quantity,
			Reason:   it.Reason,
		})
	}
	return ReturnDTO{
		ID:       r.ID,
		Date:     r.Date.Format(time.DateOnly),
		Customer: r.Customer,
		Items:    items,
		Status:   string(r.Status),
		Total:    money(r.Total),
	}
}

func toReturnDTOs(list []*returns.Return) []ReturnDTO {
	out := make([]ReturnDTO, 0, len(list))
	for _, r := range list {
		out = append(out, toReturnDTO(r))
	}
	return out
}
