package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Stable machine-readable error codes; the frontend switches on these.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeEmailExists      = "EMAIL_EXISTS"
	codeInvalidToken     = "INVALID_TOKEN"
	codeTokenExpired     = "TOKEN_EXPIRED"
	codeAlreadyConfirmed = "ALREADY_CONFIRMED"
	codeInternal         = "INTERNAL_ERROR"
)

const msgInternal = "Internal server error"

// APIError is the JSON error envelope shared by all auth endpoints.
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func apiError(code, message string) APIError {
	return APIError{Code: code, Message: message}
}

// validationError turns gin binding failures into a field-keyed error map.
func validationError(err error) APIError {
	out := APIError{Code: codeValidation, Message: "Invalid request"}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}

	out.Errors = make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		out.Errors[field] = append(out.Errors[field], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + lowerFirst(fe.Param())
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
