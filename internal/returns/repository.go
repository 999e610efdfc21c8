package returns

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	List(ctx context.Context) ([]*Return, error)
	FindByID(ctx context.Context, id string) (*Return, error)
	// UpdateStatus moves a return from one status to another and returns the
	// updated copy. A return not currently in from yields ErrReturnNotPending.
	UpdateStatus(ctx context.Context, id string, from, to Status) (*Return, error)
}

type memoryRepository struct {
	mu      sync.RWMutex
	returns map[string]*Return
}

func NewRepository(seed ...Return) Repository {
	r := &memoryRepository{returns: make(map[string]*Return, len(seed))}
	for i := range seed {
		ret := seed[i]
		r.returns[ret.ID] = &ret
	}
	return r
}

// NewDemoRepository is seeded with the returns shown on the staff dashboard.
func NewDemoRepository() Repository {
	return NewRepository(DemoReturns()...)
}

func DemoReturns() []Return {
	return []Return{
		{
			ID:       "R001",
			Date:     time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
			Customer: "John Doe",
			Items: []Item{{
				ID: "1", Name: "Organic Bananas", Price: decimal.RequireFromString("1.99"),
				Quantity: 1, Reason: "Quality issues",
			}},
			Status: StatusPending,
			Total:  decimal.RequireFromString("1.99"),
		},
		{
			ID:       "R002",
			Date:     time.Date(2025, time.April, 9, 0, 0, 0, 0, time.UTC),
			Customer: "Jane Smith",
			Items: []Item{{
				ID: "2", Name: "Whole Milk", Price: decimal.RequireFromString("3.49"),
				Quantity: 2, Reason: "Wrong item",
			}},
			Status: StatusApproved,
			Total:  decimal.RequireFromString("6.98"),
		},
	}
}

// List returns copies, newest first.
func (r *memoryRepository) List(ctx context.Context) ([]*Return, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Return, 0, len(r.returns))
	for _, ret := range r.returns {
		c := *ret
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// FindByID returns nil, nil for unknown ids.
func (r *memoryRepository) FindByID(ctx context.Context, id string) (*Return, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ret, ok := r.returns[id]
	if !ok {
		return nil, nil
	}
	c := *ret
	return &c, nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ret, ok := r.returns[id]
	if !ok {
		return nil, ErrReturnNotFound
	}
	if ret.Status != from {
		return nil, fmt.Errorf("%w: %s is %s", ErrReturnNotPending, id, ret.Status)
	}
	ret.Status = to
	c := *ret
	return &c, nil
}
