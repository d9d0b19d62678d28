package errors

import (
	"errors"
	"fmt"

	"github.com/tillpointhq/tillpoint-backend/pkg/backend"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	BackendStatus  int    `json:"backend_status,omitempty"`
	BackendCode    string `json:"backend_code,omitempty"`
	BackendMessage string `json:"backend_message,omitempty"`
	BackendDetails string `json:"backend_details,omitempty"`
	BackendHint    string `json:"backend_hint,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		d.BackendStatus = apiErr.StatusCode
		d.BackendCode = apiErr.Code
		d.BackendMessage = apiErr.Message
		d.BackendDetails = apiErr.Details
		d.BackendHint = apiErr.Hint
	}

	return d
}
