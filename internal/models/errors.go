package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the application.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeExpiredToken       = "EXPIRED_TOKEN"
	CodeAlreadyInRelation  = "ALREADY_IN_RELATION"
	CodeNotInRelation      = "NOT_IN_RELATION"
	CodeSelfFollow         = "SELF_FOLLOW"
	CodeUpstreamFailure    = "UPSTREAM_FAILURE"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewDuplicateIdentityError signals a username or email collision at registration.
func NewDuplicateIdentityError(field string) *AppError {
	return &AppError{
		Code:    CodeDuplicateIdentity,
		Message: fmt.Sprintf("%s is already taken", field),
	}
}

// NewInvalidCredentialsError is returned on login failure. The message does not
// distinguish an unknown username from a wrong password.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid credentials",
	}
}

// NewInvalidTokenError signals an unknown or already-consumed reset token.
func NewInvalidTokenError() *AppError {
	return &AppError{
		Code:    CodeInvalidToken,
		Message: "Invalid or expired password reset token",
	}
}

// NewExpiredTokenError signals a reset token found past its expiry.
func NewExpiredTokenError() *AppError {
	return &AppError{
		Code:    CodeExpiredToken,
		Message: "Password reset token has expired",
	}
}

func NewAlreadyInRelationError(message string) *AppError {
	return &AppError{
		Code:    CodeAlreadyInRelation,
		Message: message,
	}
}

func NewNotInRelationError(message string) *AppError {
	return &AppError{
		Code:    CodeNotInRelation,
		Message: message,
	}
}

func NewSelfFollowError() *AppError {
	return &AppError{
		Code:    CodeSelfFollow,
		Message: "You cannot follow yourself",
	}
}

// NewUpstreamError wraps a failure from an external collaborator (mail
// transport, object storage). Surfaced as a server-side failure; retries, if
// any, belong to the collaborator.
func NewUpstreamError(dependency string, err error) *AppError {
	return &AppError{
		Code:    CodeUpstreamFailure,
		Message: fmt.Sprintf("%s is unavailable", dependency),
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
