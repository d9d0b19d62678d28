package checkout

import (
	"errors"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/pkg/backend"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
)

// Structured codes the hosted service raises from its order function. These
// take priority over prose inspection whenever they are present.
const (
	backendCodeOutOfStock    = "OUT_OF_STOCK"
	backendCodePaymentFailed = "PAYMENT_FAILED"
)

var stockPhrases = []string{"out of stock", "insufficient stock", "inventory"}

// Classify maps an order-creation failure onto the checkout taxonomy. The
// structured error code is checked first; the message substring checks exist
// because the hosted service does not attach codes to every failure. All
// mapped codes leave the cart intact and are safe to retry.
func Classify(err error) *pkgerrors.Error {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order service unreachable")
	}

	switch apiErr.Code {
	case backendCodeOutOfStock:
		return stockError(err, apiErr)
	case backendCodePaymentFailed:
		return paymentError(err, apiErr)
	}

	message := strings.ToLower(apiErr.Message)
	for _, phrase := range stockPhrases {
		if strings.Contains(message, phrase) {
			return stockError(err, apiErr)
		}
	}
	if strings.Contains(message, "payment") {
		return paymentError(err, apiErr)
	}

	return pkgerrors.Wrap(pkgerrors.CodeOrderSubmission, err, "order submission failed").
		WithDetails(map[string]any{"backend_message": apiErr.Message})
}

func stockError(err error, apiErr *backend.APIError) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeOutOfStock, err, "items are out of stock").
		WithDetails(map[string]any{"backend_message": apiErr.Message})
}

func paymentError(err error, apiErr *backend.APIError) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "payment failed").
		WithDetails(map[string]any{"backend_message": apiErr.Message})
}
