package amadeus

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCredentialsMissing means no recognized environment variable supplied a
// client id or secret. Returned before any network call is attempted.
var ErrCredentialsMissing = errors.New("amadeus credentials missing")

// AuthError is a non-success response from the token endpoint. Status and
// Detail carry the provider's answer unmodified.
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("amadeus auth rejected (status=%d): %s", e.Status, e.Detail)
}

// APIError is a non-success response from an authenticated endpoint.
type APIError struct {
	Status int
	Code   int
	Detail string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("amadeus error (status=%d, code=%d): %s", e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("amadeus error (status=%d): %s", e.Status, e.Detail)
}

// UpstreamError is a transport-level failure reaching the provider.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("amadeus %s: upstream unavailable: %v", e.Op, e.Err)
}
func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is a transport failure or provider 5xx,
// i.e. a condition where trying another source makes sense.
func IsUnavailable(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return true
	}
	var ae *APIError
	return errors.As(err, &ae) && ae.Status >= 500
}

// Error codes Amadeus returns when the order-creation endpoint rejects a
// request because of test-environment limitations rather than a bad request.
const (
	codeSegmentSellFailure  = 38187
	codeInvalidDataReceived = 38190
)

// IsSandboxLimitation reports whether err matches the known class of
// test-environment rejections for which a mock booking is an acceptable
// stand-in.
func IsSandboxLimitation(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Code == codeSegmentSellFailure || ae.Code == codeInvalidDataReceived || ae.Status == 401
}

type errorBody struct {
	Errors []struct {
		Status json.Number `json:"status"`
		Code   json.Number `json:"code"`
		Title  string      `json:"title"`
		Detail string      `json:"detail"`
	} `json:"errors"`
	ErrorDescription string `json:"error_description"`
}

func apiError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Errors) > 0 {
		first := eb.Errors[0]
		if c, err := first.Code.Int64(); err == nil {
			e.Code = int(c)
		}
		e.Detail = first.Detail
		if e.Detail == "" {
			e.Detail = first.Title
		}
	}
	if e.Detail == "" {
		e.Detail = string(body)
	}
	return e
}

func authError(status int, body []byte) *AuthError {
	e := &AuthError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if len(eb.Errors) > 0 {
			e.Detail = eb.Errors[0].Detail
			if e.Detail == "" {
				e.Detail = eb.Errors[0].Title
			}
		} else if eb.ErrorDescription != "" {
			e.Detail = eb.ErrorDescription
		}
	}
	if e.Detail == "" {
		e.Detail = string(body)
	}
	return e
}
