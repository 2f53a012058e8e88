package apperrors

type Type string

const (
	TypeValidation  Type = "validation"
	TypeUnsupported Type = "unsupported"
	TypeNotFound    Type = "not_found"
	TypeRetryable   Type = "retryable"
	TypeInternal    Type = "internal"
)

type AppError struct {
	Type    Type           `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func IsRetryable(e *AppError) bool {
	return e != nil && e.Type == TypeRetryable
}

func NewValidation(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    TypeValidation,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NewUnsupported(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    TypeUnsupported,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NewNotFound(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    TypeNotFound,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NewRetryable(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    TypeRetryable,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NewInternal(code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    TypeInternal,
		Code:    code,
		Message: message,
		Details: details,
	}
}
