package types

import "fmt"

// CustomError is an error that carries its HTTP status and a machine-readable code.
type CustomError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [code: %s, type: %s]", e.Status, e.Message, e.Code, e.Type)
}

// NewAuthError builds a 401/403 error in the "auth" family.
func NewAuthError(status int, code, message string) *CustomError {
	return &CustomError{
		Status:  status,
		Code:    code,
		Message: message,
		Type:    "auth",
	}
}

// Auth error codes returned in the "code" field.
const (
	CodeAuthHeaderMissing  = "AUTH_HEADER_MISSING"
	CodeInvalidAuthFormat  = "INVALID_AUTH_FORMAT"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeAdminRequired      = "ADMIN_REQUIRED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// General error codes.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeDuplicate  = "DUPLICATE"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

// NewValidationError builds a 400 for bad caller input
func NewValidationError(message string) *CustomError {
	return &CustomError{Status: 400, Code: CodeValidation, Message: message, Type: "validation"}
}

// NewDuplicateError builds a 400 for a unique value that is already taken
func NewDuplicateError(message string) *CustomError {
	return &CustomError{Status: 400, Code: CodeDuplicate, Message: message, Type: "validation"}
}

// NewNotFoundError builds a 404
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Status: 404, Code: CodeNotFound, Message: message, Type: "notFound"}
}
