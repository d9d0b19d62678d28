package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/pkg/backend"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type historyReader interface {
	ListOrders(ctx context.Context, token string, limit int) ([]backend.OrderRecord, error)
	GetOrder(ctx context.Context, token, orderID string) (*backend.OrderDetail, error)
}

// Service reads persisted orders back from the hosted service. Access is
// scoped by the caller's token; the hosted service filters rows to the
// authenticated user.
type Service interface {
	ListRecent(ctx context.Context, token string, limit int) ([]backend.OrderRecord, error)
	Get(ctx context.Context, token, orderID string) (*backend.OrderDetail, error)
}

type service struct {
	history historyReader
	logger  *logger.Logger
}

func NewService(history historyReader, logg *logger.Logger) (Service, error) {
	if history == nil {
		return nil, fmt.Errorf("history reader required")
	}
	return &service{history: history, logger: logg}, nil
}

func (s *service) ListRecent(ctx context.Context, token string, limit int) ([]backend.OrderRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	records, err := s.history.ListOrders(ctx, token, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load orders")
	}
	if records == nil {
		records = []backend.OrderRecord{}
	}
	return records, nil
}

func (s *service) Get(ctx context.Context, token, orderID string) (*backend.OrderDetail, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	detail, err := s.history.GetOrder(ctx, token, orderID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}
	return detail, nil
}
