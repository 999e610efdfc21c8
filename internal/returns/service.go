package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quickcheckout/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter Filter) ([]*Return, error)
	Approve(ctx context.Context, id string) (*Return, error)
	Reject(ctx context.Context, id string) (*Return, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func parseStatusFilter(s string) (Status, bool, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "", "all":
		return "", false, nil
	case StatusPending, StatusApproved, StatusRejected:
		return st, true, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Return, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "List"),
	)

	status, byStatus, err := parseStatusFilter(filter.Status)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list returns", zap.Error(err))
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*Return, 0, len(all))
	for _, ret := range all {
		if byStatus && ret.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(ret.Customer), needle) &&
			!strings.Contains(strings.ToLower(ret.ID), needle) {
			continue
		}
		out = append(out, ret)
	}
	return out, nil
}

func (s *service) Approve(ctx context.Context, id string) (*Return, error) {
	return s.decide(ctx, "Approve", id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id string) (*Return, error) {
	return s.decide(ctx, "Reject", id, StatusRejected)
}

// decide moves a pending return to status. The pending check happens inside
// the repository write, so two concurrent decisions cannot both succeed.
func (s *service) decide(ctx context.Context, method, id string, status Status) (*Return, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", method),
		zap.String("return_id", id),
	)

	ret, err := s.repo.UpdateStatus(ctx, id, StatusPending, status)
	switch {
	case errors.Is(err, ErrReturnNotFound):
		return nil, err
	case errors.Is(err, ErrReturnNotPending):
		log.Warn("return already processed", zap.Error(err))
		return nil, err
	case err != nil:
		log.Error("failed to update return", zap.Error(err))
		return nil, err
	}

	log.Info("return processed", zap.String("status", string(status)))
	return ret, nil
}
