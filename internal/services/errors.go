package services

import "errors"

// Sentinel errors surfaced by the auth flows; handlers map these to statuses.
var (
	ErrBadCreds    = errors.New("invalid email or password")
	ErrEmailTaken  = errors.New("user with this email already exists")
	ErrNotEligible = errors.New("your location is not currently in an active disaster zone")
)

// ErrorCode classifies order placement rejections.
type ErrorCode string

const (
	CodeInvalidRequest     ErrorCode = "invalid_request"
	CodeProductNotFound    ErrorCode = "product_not_found"
	CodeProductNotApproved ErrorCode = "product_not_approved"
	CodeInsufficientStock  ErrorCode = "insufficient_stock"
)

// OrderError is a business-rule rejection carrying a caller-facing message.
// Only the first offending item is reported, in request order.
type OrderError struct {
	Code    ErrorCode
	Message string
}

func (e *OrderError) Error() string { return e.Message }

func orderErrf(code ErrorCode, msg string) *OrderError {
	return &OrderError{Code: code, Message: msg}
}

// AsOrderError unwraps err into an OrderError if it is one.
func AsOrderError(err error) (*OrderError, bool) {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
