package dto

import "net/http"

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// ErrCodeBadRequest is used for malformed requests
const ErrCodeBadRequest = "BAD_REQUEST"

// ErrCodeInternal is used for internal server errors
const ErrCodeInternal = "INTERNAL"

// statusByCode maps domain error codes to HTTP status codes
var statusByCode = map[string]int{
	"NOT_FOUND":           http.StatusNotFound,
	"ALREADY_EXISTS":      http.StatusConflict,
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"PROVIDER_NOT_OPEN":   http.StatusConflict,
	"GATEWAY_UNAVAILABLE": http.StatusBadGateway,
	"GATEWAY_REJECTED":    http.StatusBadGateway,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeInternal:       http.StatusInternalServerError,
}

// GetHTTPStatus derives the HTTP status for a domain error code. Unmapped
// codes are treated as validation failures: the domain rejects bad input
// with descriptive INVALID_* codes.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
