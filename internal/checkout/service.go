package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	"github.com/tillpointhq/tillpoint-backend/internal/pricing"
	"github.com/tillpointhq/tillpoint-backend/pkg/backend"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

// DefaultPaymentMethod is used when the terminal does not name one.
const DefaultPaymentMethod = "cash"

type orderCreator interface {
	CreateOrder(ctx context.Context, token string, order backend.OrderRequest) (*backend.OrderRecord, error)
}

type outcomeRecorder interface {
	IncCheckoutOutcome(outcome string)
}

// Service turns a session cart into one order-creation call against the
// hosted service and resolves the outcome. The cart is cleared only on
// confirmed success; every failure path leaves it exactly as it was.
type Service interface {
	Submit(ctx context.Context, c *cart.Cart, input SubmitInput) (*backend.OrderRecord, error)
}

// SubmitInput carries the caller-supplied parts of a checkout attempt.
type SubmitInput struct {
	PaymentMethod string
	CustomerID    *string
	Token         string
}

type service struct {
	orders  orderCreator
	taxRate decimal.Decimal
	metrics outcomeRecorder
	logger  *logger.Logger
}

// NewService builds the checkout submitter.
func NewService(orders orderCreator, taxRate decimal.Decimal, metrics outcomeRecorder, logg *logger.Logger) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must be non-negative")
	}
	return &service{
		orders:  orders,
		taxRate: taxRate,
		metrics: metrics,
		logger:  logg,
	}, nil
}

func (s *service) Submit(ctx context.Context, c *cart.Cart, input SubmitInput) (*backend.OrderRecord, error) {
	if c == nil {
		return nil, s.resolve(ctx, pkgerrors.New(pkgerrors.CodeValidation, "cart required"))
	}

	if !c.BeginCheckout() {
		return nil, s.resolve(ctx, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress"))
	}
	defer c.EndCheckout()

	lines := c.Lines()
	if len(lines) == 0 {
		return nil, s.resolve(ctx, pkgerrors.New(pkgerrors.CodeValidation, "cannot submit an empty order"))
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	totals := pricing.Calculate(lines, s.taxRate)

	items := make([]backend.OrderLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, backend.OrderLine{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
		})
	}

	record, err := s.orders.CreateOrder(ctx, input.Token, backend.OrderRequest{
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: paymentMethod,
		CustomerID:    input.CustomerID,
		Status:        "completed",
		Items:         items,
	})
	if err != nil {
		return nil, s.resolve(ctx, Classify(err))
	}

	c.Clear()
	s.record("success")
	if s.logger != nil {
		logCtx := s.logger.WithFields(ctx, map[string]any{
			"order_id": record.ID,
			"total":    pricing.Display(totals.Total),
		})
		s.logger.Info(logCtx, "checkout.completed")
	}
	return record, nil
}

// resolve records the attempt's outcome and hands the error back unchanged.
func (s *service) resolve(ctx context.Context, err *pkgerrors.Error) *pkgerrors.Error {
	s.record(outcomeLabel(err.Code()))
	if s.logger != nil && err.Code() != pkgerrors.CodeValidation {
		s.logger.Warn(s.logger.WithField(ctx, "outcome", outcomeLabel(err.Code())), "checkout.rejected")
	}
	return err
}

func (s *service) record(outcome string) {
	if s.metrics != nil {
		s.metrics.IncCheckoutOutcome(outcome)
	}
}

func outcomeLabel(code pkgerrors.Code) string {
	switch code {
	case pkgerrors.CodeValidation:
		return "validation_error"
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeOutOfStock:
		return "out_of_stock"
	case pkgerrors.CodePaymentFailed:
		return "payment_failed"
	case pkgerrors.CodeDependency:
		return "dependency_error"
	default:
		return "submission_error"
	}
}
