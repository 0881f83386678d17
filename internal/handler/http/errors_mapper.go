package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/service"
	"github.com/MKhiriev/go-data-vault/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,

	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrUserNotFound:            http.StatusNotFound,
	service.ErrAccountLocked:           http.StatusLocked,
	service.ErrAccountSuspended:        http.StatusForbidden,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	service.ErrSelfActionForbidden:    http.StatusForbidden,
	service.ErrInsufficientPermission: http.StatusForbidden,
	service.ErrRankTooLow:             http.StatusForbidden,
	service.ErrLastRoot:               http.StatusConflict,

	store.ErrEmailAlreadyExists:  http.StatusConflict,
	store.ErrUserNotFound:        http.StatusNotFound,
	store.ErrRecordNotFound:      http.StatusNotFound,
	store.ErrContainerNotFound:   http.StatusNotFound,
	store.ErrConstraintViolation: http.StatusConflict,

	// the storage layer is saturated or a writer overran its hold window;
	// the caller may retry later
	store.ErrBusy:        http.StatusServiceUnavailable,
	store.ErrLockTimeout: http.StatusServiceUnavailable,

	store.ErrCorruptContainer: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps a service error onto an HTTP status and writes a plain-text
// response. Internal errors are logged with detail but answered with the
// generic status text so storage internals never leak to callers.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	log.Err(err).Int("status", status).Send()

	if status >= http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}
