package handlers

import (
	"errors"

	"galaxia/internal/schemas"
	"galaxia/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Error codes carried in the "error" field of every error response.
const (
	CodeValidation        = "validation_error"
	CodeEmailExists       = "email_already_exists"
	CodeNotFound          = "not_found"
	CodeInvalidCreds      = "invalid_credentials"
	CodeInvalidContent    = "invalid_content"
	CodeInvalidPagination = "invalid_pagination"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeRequestTooLarge   = "request_too_large"
	CodeBadRequest        = "bad_request"
	CodeInternal          = "internal_error"
)

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Details schemas.FieldErrors `json:"details,omitempty"`
}

func errorResponse(c *fiber.Ctx, status int, code, message string, details schemas.FieldErrors) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
}

// mapServiceError translates a service error kind into a status code and error code.
// Anything unknown is an internal error.
func mapServiceError(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound, CodeNotFound, "User not found."
	case errors.Is(err, services.ErrEmailAlreadyExists):
		return fiber.StatusConflict, CodeEmailExists, "Email already exists."
	case errors.Is(err, services.ErrNoFieldsProvided):
		return fiber.StatusBadRequest, CodeValidation, "No valid fields provided."
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, CodeInvalidCreds, ""
	case errors.Is(err, services.ErrInvalidContent):
		return fiber.StatusBadRequest, CodeInvalidContent, ""
	default:
		return fiber.StatusInternalServerError, CodeInternal, ""
	}
}

func serviceError(c *fiber.Ctx, err error) error {
	status, code, message := mapServiceError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return errorResponse(c, status, code, message, nil)
}

// ErrorHandler renders errors that escape the handlers, including Fiber's
// own routing errors, as JSON error bodies. Internal details never leak.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return errorResponse(c, fiber.StatusNotFound, CodeNotFound, "Resource not found.", nil)
		case fiber.StatusMethodNotAllowed:
			return errorResponse(c, fiber.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed.", nil)
		case fiber.StatusRequestEntityTooLarge:
			return errorResponse(c, fiber.StatusRequestEntityTooLarge, CodeRequestTooLarge, "Request body too large.", nil)
		}
		if fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError {
			return errorResponse(c, fe.Code, CodeBadRequest, fe.Message, nil)
		}
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	return errorResponse(c, fiber.StatusInternalServerError, CodeInternal, "Internal server error.", nil)
}
