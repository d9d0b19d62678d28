package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError carries the hosted service's error payload. The service returns a
// structured body when it has one ({code, message, details, hint}) but the
// message string is retained verbatim because some failures only identify
// themselves through prose.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	Hint       string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("backend: %s (%s)", e.Message, e.Code)
	}
	return "backend: " + e.Message
}

// errorBody covers the shapes the hosted service emits: the database surface
// uses {code, message, details, hint}; the auth surface uses
// {error, error_description} or {msg}.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	ErrorField       string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(raw) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	apiErr.Code = decodeCode(body.Code)
	apiErr.Details = body.Details
	apiErr.Hint = body.Hint

	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case body.Msg != "":
		apiErr.Message = body.Msg
	case body.ErrorDescription != "":
		apiErr.Message = body.ErrorDescription
	case body.ErrorField != "":
		apiErr.Message = body.ErrorField
	default:
		apiErr.Message = resp.Status
	}
	return apiErr
}

// decodeCode tolerates both string and numeric code fields.
func decodeCode(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return ""
}
