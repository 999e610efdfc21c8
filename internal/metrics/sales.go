package metrics

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Stats backs the quick stats on the staff dashboard.
type Stats struct {
	Day                    string          `json:"day"`
	TodaysSales            decimal.Decimal `json:"todays_sales"`
	CustomersServed        uint64          `json:"customers_served"`
	AverageTransactionTime time.Duration   `json:"average_transaction_time"`
}

// Sales accumulates completed transactions for the current day and starts
// over when the day changes.
type Sales struct {
	mu        sync.Mutex
	now       func() time.Time
	day       string
	total     decimal.Decimal
	served    Counter
	totalTime time.Duration
}

func NewSales() *Sales {
	return newSales(time.Now)
}

func newSales(now func() time.Time) *Sales {
	s := &Sales{now: now, total: decimal.Zero}
	s.day = s.today()
	return s
}

func (s *Sales) today() string {
	return s.now().Format("2006-01-02")
}

func (s *Sales) rollover() {
	if d := s.today(); d != s.day {
		s.day = d
		s.total = decimal.Zero
		s.served.Reset()
		s.totalTime = 0
	}
}

func (s *Sales) Record(total decimal.Decimal, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	s.total = s.total.Add(total)
	s.served.Inc()
	s.totalTime += elapsed
}

func (s *Sales) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()

	st := Stats{Day: s.day, TodaysSales: s.total, CustomersServed: s.served.Load()}
	if st.CustomersServed > 0 {
		st.AverageTransactionTime = s.totalTime / time.Duration(st.CustomersServed)
	}
	return st
}
