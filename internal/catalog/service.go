package catalog

import (
	"context"
	"strings"

	"quickcheckout/internal/logger"

	"go.uber.org/zap"
)

// Service resolves scanned codes to products.
type Service interface {
	FindByCode(ctx context.Context, code string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// FindByCode trims the scanned code and looks it up. Unknown codes return
// ErrProductNotFound, which callers treat as a recoverable scan error.
func (s *service) FindByCode(ctx context.Context, code string) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "FindByCode"),
		zap.String("code", code),
	)

	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		log.Error("catalog lookup failed", zap.Error(err))
		return nil, err
	}
	if p == nil {
		log.Info("unknown barcode")
		return nil, ErrProductNotFound
	}

	log.Debug("product resolved", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}
