package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
)

// Aliases used by call sites that predate the prefixed names.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Model / inference error codes.
const (
	// ErrCodeModelUnavailable is the ModelError: the backend stayed unavailable
	// after every retry attempt.
	ErrCodeModelUnavailable ErrorCode = "AI_001"
	// ErrCodeModelOutputUnparseable is the ParseError. It never leaves the
	// enrichment pipeline.
	ErrCodeModelOutputUnparseable ErrorCode = "AI_002"
	// ErrCodeModelRequestRejected marks a non-transient backend rejection (4xx).
	ErrCodeModelRequestRejected ErrorCode = "AI_003"
)

// Geocoding error codes.
const (
	ErrCodeGeocodingFailed ErrorCode = "GEO_001"
)

// Upstream data source error codes.
const (
	ErrCodeUpstreamSourceUnavailable ErrorCode = "UPSTREAM_001"
	ErrCodeSupplierStore             ErrorCode = "STORE_001"
	ErrCodeCacheMiss                 ErrorCode = "CACHE_001"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeModelUnavailable:       http.StatusServiceUnavailable,
	ErrCodeModelOutputUnparseable: http.StatusBadGateway,
	ErrCodeModelRequestRejected:   http.StatusBadGateway,

	ErrCodeGeocodingFailed: http.StatusBadGateway,

	ErrCodeUpstreamSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSupplierStore:             http.StatusServiceUnavailable,
	ErrCodeCacheMiss:                 http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeModelUnavailable:       "inference backend unavailable",
	ErrCodeModelOutputUnparseable: "model output could not be parsed",
	ErrCodeModelRequestRejected:   "inference backend rejected the request",

	ErrCodeGeocodingFailed: "geocoding failed",

	ErrCodeUpstreamSourceUnavailable: "upstream source unavailable",
	ErrCodeSupplierStore:             "supplier store unavailable",
	ErrCodeCacheMiss:                 "cache miss",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
