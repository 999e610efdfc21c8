package catalog

import (
	"context"
	"sort"
)

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}

// memoryRepository is read-only after construction, so it needs no locking.
type memoryRepository struct {
	byCode map[string]Product
	order  []string
}

// NewRepository builds a static catalog. Later entries with a duplicate code
// replace earlier ones.
func NewRepository(products ...Product) Repository {
	r := &memoryRepository{byCode: make(map[string]Product, len(products))}
	for _, p := range products {
		if _, exists := r.byCode[p.Code]; !exists {
			r.order = append(r.order, p.Code)
		}
		r.byCode[p.Code] = p
	}
	return r
}

func NewDemoRepository() Repository {
	return NewRepository(DemoProducts()...)
}

// FindByCode returns nil, nil when the code is unknown.
func (r *memoryRepository) FindByCode(ctx context.Context, code string) (*Product, error) {
	p, ok := r.byCode[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*Product, error) {
	out := make([]*Product, 0, len(r.order))
	for _, code := range r.order {
		p := r.byCode[code]
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
