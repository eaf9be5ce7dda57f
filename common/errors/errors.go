package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an error with the HTTP status and the user-facing message it maps to.
// Err holds the cause and is never serialized.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same kind of error, ignoring the cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrap returns a copy of kind with err as the cause.
func Wrap(kind *Error, err error) *Error {
	return New(kind.Code, kind.Message, err)
}

// From returns err as an *Error. Anything that is not one becomes an internal
// server error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return Wrap(ErrInternalServer, err)
}

// Generic
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
	ErrTooManyRequests    = New(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	ErrInvalidInput       = New(http.StatusBadRequest, "Invalid input", nil)
)

// Cart
var (
	ErrItemNotFound = New(http.StatusNotFound, "Menu item not found", nil)
	ErrEmptyCart    = New(http.StatusBadRequest, "Your cart is empty", nil)
)

// Payments and order history. The backend being unreachable or answering
// garbage is a 502 to our callers.
var (
	ErrInvalidPaymentParams = New(http.StatusBadRequest, "Invalid payment parameters", nil)
	ErrPaymentProcessing    = New(http.StatusBadGateway, "Payment processing failed", nil)
	ErrVerificationFailed   = New(http.StatusBadGateway, "Payment verification failed", nil)
	ErrPaymentUnverified    = New(http.StatusPaymentRequired, "Payment not verified", nil)
	ErrOrdersUnavailable    = New(http.StatusBadGateway, "Failed to fetch orders", nil)
)

// ErrorMiddleware renders the last error attached with c.Error as JSON, unless
// the handler already wrote a response.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		c.AbortWithStatusJSON(appErr.Code, appErr)
	}
}
