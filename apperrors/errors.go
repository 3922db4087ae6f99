// Package apperrors defines the error taxonomy shared by services and
// controllers. Every domain failure carries a stable kind (the HTTP
// category) and a stable code; anything unclassified is reported as a
// generic server fault without internal detail.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable failure category.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindState      Kind = "state"
	KindInternal   Kind = "internal"
)

// Error is a kind-tagged domain error with a user-visible message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Auth failures.
var (
	ErrSuperadminSecretInvalid = newError(KindAuth, "superadmin_secret_invalid", "Superadmin secret is invalid")
	ErrEmailNotRegistered      = newError(KindAuth, "email_not_registered", "Email is not registered")
	ErrIncorrectPassword       = newError(KindAuth, "incorrect_password", "Incorrect password")
	ErrTokenExpired            = newError(KindAuth, "token_expired", "Token has expired")
	ErrTokenInvalid            = newError(KindAuth, "token_invalid", "Token is invalid")
	ErrNotAuthenticated        = newError(KindAuth, "not_authenticated", "Not authenticated")
	ErrAlreadyAuthenticated    = newError(KindAuth, "already_authenticated", "Already authenticated")
)

// Conflict / not-found failures with fixed messages.
var (
	ErrAdminAlreadyExists = newError(KindConflict, "admin_already_exists", "Admin with this email already exists")
	ErrAdminNotFound      = newError(KindNotFound, "admin_not_found", "Admin not found")
	ErrOrderNotFound      = newError(KindNotFound, "order_not_found", "Order not found")
	ErrCategoryNotFound   = newError(KindNotFound, "category_not_found", "Category not found")
	ErrCategorySlugExists = newError(KindConflict, "category_slug_exists", "Category with this slug already exists")
)

// ProductNotFound reports a missing (or inactive) product reference.
func ProductNotFound(id string) *Error {
	return newError(KindNotFound, "product_not_found", fmt.Sprintf("Product %s not found", id))
}

// ProductOutOfStock reports a product whose stock is exhausted.
func ProductOutOfStock(name string) *Error {
	return newError(KindConflict, "product_out_of_stock", fmt.Sprintf("Product %q is out of stock", name))
}

// InsufficientStock reports a request exceeding the available quantity.
func InsufficientStock(name string, available int) *Error {
	return newError(KindConflict, "insufficient_stock",
		fmt.Sprintf("Not enough stock for %q, available: %d", name, available))
}

// InvalidStatus reports an order status outside the known enum.
func InvalidStatus(status string) *Error {
	return newError(KindState, "invalid_status", fmt.Sprintf("Invalid order status %q", status))
}

// InvalidPaymentStatus reports a payment status outside the known enum.
func InvalidPaymentStatus(status string) *Error {
	return newError(KindState, "invalid_payment_status", fmt.Sprintf("Invalid payment status %q", status))
}

// InvalidStatusTransition reports a forbidden move in the order status graph.
func InvalidStatusTransition(from, to string) *Error {
	return newError(KindState, "invalid_status_transition",
		fmt.Sprintf("Order status cannot change from %q to %q", from, to))
}

// Validation reports a malformed or missing input field.
func Validation(message string) *Error {
	return newError(KindValidation, "validation_failed", message)
}

// CodeOf returns the stable code of err, or "" for unclassified errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf returns the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code reported at the boundary.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if e.Code == ErrAlreadyAuthenticated.Code {
		return http.StatusForbidden
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
