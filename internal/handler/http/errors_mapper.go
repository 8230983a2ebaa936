package http

import (
	"errors"
	"net/http"

	"github.com/soclink/authcore/internal/security"
	"github.com/soclink/authcore/internal/service"
	"github.com/soclink/authcore/internal/store"
)

// errorStatusMap is the single translation point between the sentinels of
// the lower layers and HTTP statuses. The accompanying messages sent to
// clients are the sentinel texts themselves, which are written to say
// nothing about internal state.
var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,

	security.ErrInvalidCredentials: http.StatusUnauthorized,
	security.ErrSessionInvalid:     http.StatusUnauthorized,
	security.ErrResetTokenInvalid:  http.StatusUnauthorized,
	security.ErrMFARejected:        http.StatusUnauthorized,
	security.ErrMFARequired:        http.StatusConflict,
	security.ErrAccountLocked:      http.StatusLocked,
	security.ErrUnauthorized:       http.StatusForbidden,
	security.ErrUnknownAdminAction: http.StatusBadRequest,
	security.ErrBadActionParams:    http.StatusBadRequest,
	security.ErrRateLimited:        http.StatusTooManyRequests,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrEmailAlreadyExists:    http.StatusConflict,
	store.ErrNoAccountFound:        http.StatusNotFound,
	store.ErrMFANotEnrolled:        http.StatusConflict,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeStatusError answers with the mapped status. 5xx conditions get the
// generic status text so driver and store details never reach the client.
func writeStatusError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}
