package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// AppError is a request-terminating error carrying the HTTP status it maps
// to. Fields is populated only for validation errors.
type AppError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
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

func NewValidationError(fields map[string]string) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Fields:  fields,
	}
}

func NewAuthRequiredError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusUnauthorized,
		Code:    "AUTH_REQUIRED",
		Message: message,
	}
}

func NewPermissionDeniedError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusForbidden,
		Code:    "PERMISSION_DENIED",
		Message: message,
	}
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Status:  fiber.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewStorageError wraps a persistence failure. The underlying error is kept
// for logs but never serialized to the client.
func NewStorageError(message string, err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    "STORAGE_ERROR",
		Message: message,
		Err:     err,
	}
}

// RespondWithError writes the standardized error body for err. Internal
// details (AppError.Err) are deliberately omitted from the response.
func RespondWithError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*AppError); ok {
		return c.Status(appErr.Status).JSON(ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "Internal server error",
	})
}
