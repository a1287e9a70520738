package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.  Codes
// follow the "<MODULE>_<NNN>" convention.
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
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Sentinel codes that never appear on the wire.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Snapshot Error Codes
const (
	ErrCodeSnapshotFetch         ErrorCode = "SNAP_001"
	ErrCodeSnapshotDecode        ErrorCode = "SNAP_002"
	ErrCodeSnapshotInvalid       ErrorCode = "SNAP_003"
	ErrCodeSourceNotConfigured   ErrorCode = "SNAP_004"
	ErrCodeSnapshotUpstreamError ErrorCode = "SNAP_005"
)

// Zone Error Codes
const (
	ErrCodeZoneConfigInvalid ErrorCode = "ZONE_001"
	ErrCodeZoneNotFound      ErrorCode = "ZONE_002"
)

// View Error Codes
const (
	ErrCodeViewNotLoaded  ErrorCode = "VIEW_001"
	ErrCodeVesselNotFound ErrorCode = "VIEW_002"
	ErrCodeRefreshFailed  ErrorCode = "VIEW_003"
)

// Infrastructure Error Codes
const (
	ErrCodeCacheError   ErrorCode = "CACHE_001"
	ErrCodeCacheMiss    ErrorCode = "CACHE_002"
	ErrCodeMessageQueue ErrorCode = "MQ_001"
	ErrCodeMQPublish    ErrorCode = "MQ_002"
	ErrCodeStorageError ErrorCode = "STORE_001"
	ErrCodeObjectAbsent ErrorCode = "STORE_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeSnapshotFetch:         http.StatusBadGateway,
	ErrCodeSnapshotDecode:        http.StatusBadGateway,
	ErrCodeSnapshotInvalid:       http.StatusBadGateway,
	ErrCodeSourceNotConfigured:   http.StatusServiceUnavailable,
	ErrCodeSnapshotUpstreamError: http.StatusBadGateway,

	ErrCodeZoneConfigInvalid: http.StatusInternalServerError,
	ErrCodeZoneNotFound:      http.StatusNotFound,

	ErrCodeViewNotLoaded:  http.StatusServiceUnavailable,
	ErrCodeVesselNotFound: http.StatusNotFound,
	ErrCodeRefreshFailed:  http.StatusBadGateway,

	ErrCodeCacheError:   http.StatusInternalServerError,
	ErrCodeCacheMiss:    http.StatusNotFound,
	ErrCodeMessageQueue: http.StatusInternalServerError,
	ErrCodeMQPublish:    http.StatusInternalServerError,
	ErrCodeStorageError: http.StatusInternalServerError,
	ErrCodeObjectAbsent: http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeSnapshotFetch:         "failed to fetch snapshot",
	ErrCodeSnapshotDecode:        "failed to decode snapshot",
	ErrCodeSnapshotInvalid:       "snapshot has an invalid shape",
	ErrCodeSourceNotConfigured:   "snapshot source not configured",
	ErrCodeSnapshotUpstreamError: "snapshot upstream returned an error",

	ErrCodeZoneConfigInvalid: "invalid zone configuration",
	ErrCodeZoneNotFound:      "zone not found",

	ErrCodeViewNotLoaded:  "view not loaded",
	ErrCodeVesselNotFound: "vessel not found",
	ErrCodeRefreshFailed:  "refresh failed",

	ErrCodeCacheError:   "cache error",
	ErrCodeCacheMiss:    "cache miss",
	ErrCodeMessageQueue: "message queue error",
	ErrCodeMQPublish:    "failed to publish message",
	ErrCodeStorageError: "object storage error",
	ErrCodeObjectAbsent: "object not found",
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
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
