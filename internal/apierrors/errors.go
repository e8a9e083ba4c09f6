// Package apierrors defines the closed set of business errors raised by
// services. Each error carries the HTTP status it maps to, so the transport
// layer translates errors in exactly one place.
package apierrors

import "net/http"

// Code identifies an error class independently of its message.
type Code string

const (
	CodeValidation      Code = "validation"
	CodeAlreadyExists   Code = "already_exists"
	CodeUnauthenticated Code = "unauthenticated"
	CodeForbidden       Code = "forbidden"
	CodeLocked          Code = "locked"
	CodeNotFound        Code = "not_found"
	CodeInvalidToken    Code = "invalid_or_expired_token"
	CodeInternal        Code = "internal"
)

// APIError is a typed business failure with a fixed transport mapping.
type APIError struct {
	Code       Code
	HTTPStatus int
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func NewValidation(message string) *APIError {
	return &APIError{Code: CodeValidation, HTTPStatus: http.StatusBadRequest, Message: message}
}

func NewAlreadyExists() *APIError {
	return &APIError{Code: CodeAlreadyExists, HTTPStatus: http.StatusBadRequest, Message: "user already exists"}
}

// NewInvalidCredentials covers unknown email and wrong password uniformly so
// account existence is not observable before the password stage.
func NewInvalidCredentials() *APIError {
	return &APIError{Code: CodeUnauthenticated, HTTPStatus: http.StatusUnauthorized, Message: "invalid email or password"}
}

func NewUnauthenticated(message string) *APIError {
	return &APIError{Code: CodeUnauthenticated, HTTPStatus: http.StatusUnauthorized, Message: message}
}

func NewForbidden(message string) *APIError {
	return &APIError{Code: CodeForbidden, HTTPStatus: http.StatusForbidden, Message: message}
}

func NewEmailNotVerified() *APIError {
	return &APIError{Code: CodeForbidden, HTTPStatus: http.StatusForbidden, Message: "please verify your email first"}
}

func NewAccountLocked() *APIError {
	return &APIError{Code: CodeLocked, HTTPStatus: http.StatusLocked, Message: "account temporarily locked, try again later"}
}

func NewNotFound(message string) *APIError {
	return &APIError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: message}
}

func NewInvalidOrExpiredToken() *APIError {
	return &APIError{Code: CodeInvalidToken, HTTPStatus: http.StatusBadRequest, Message: "invalid or expired token"}
}

func NewSamePassword() *APIError {
	return &APIError{Code: CodeValidation, HTTPStatus: http.StatusBadRequest, Message: "new password must be different from the old one"}
}

func NewInternal(cause error) *APIError {
	return &APIError{Code: CodeInternal, HTTPStatus: http.StatusInternalServerError, Message: "something went wrong", cause: cause}
}
