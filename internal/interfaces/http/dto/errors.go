package dto

import "net/http"

// Error codes returned in the error envelope. Clients branch on the code,
// the message is for humans.
const (
	ErrCodeInvalidRequest = "ERR_INVALID_REQUEST"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeConflict       = "ERR_CONFLICT"
	ErrCodeSyncDisabled   = "ERR_SYNC_DISABLED"
	ErrCodeSyncRunning    = "ERR_SYNC_RUNNING"
	ErrCodeQueueFull      = "ERR_QUEUE_FULL"
	ErrCodeSAPUnavailable = "ERR_SAP_UNAVAILABLE"
	ErrCodeSAPRejected    = "ERR_SAP_REJECTED"
	ErrCodeInternal       = "ERR_INTERNAL"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInvalidRequest: http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeConflict:       http.StatusConflict,
	ErrCodeSyncDisabled:   http.StatusConflict,
	ErrCodeSyncRunning:    http.StatusConflict,
	ErrCodeQueueFull:      http.StatusServiceUnavailable,
	ErrCodeSAPUnavailable: http.StatusBadGateway,
	ErrCodeSAPRejected:    http.StatusBadGateway,
	ErrCodeInternal:       http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
