// lrigschat/routes/errors.go
package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"lrigschat/lrigschat/controllers"
	"lrigschat/lrigschat/services/mistral"
	"lrigschat/lrigschat/sources/session"
	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/images"
)

// writeError maps store and provider errors onto HTTP statuses and a
// JSON body the chat view renders inline.
func writeError(w http.ResponseWriter, err error) {
	kind := "internal"
	status := http.StatusInternalServerError

	var (
		authErr  *mistral.AuthError
		rateErr  *mistral.RateLimitError
		connErr  *mistral.ConnectionError
		provErr  *mistral.ProviderError
		imageErr *images.ValidationError
	)
	switch {
	case errors.Is(err, session.ErrNotFound):
		kind, status = "not_found", http.StatusNotFound
	case errors.Is(err, session.ErrEmptyTitle), errors.Is(err, controllers.ErrEmptyMessage):
		kind, status = "bad_request", http.StatusBadRequest
	case errors.As(err, &imageErr):
		kind, status = "bad_request", http.StatusBadRequest
	case errors.As(err, &authErr):
		kind, status = "auth", http.StatusUnauthorized
	case errors.As(err, &rateErr):
		kind, status = "rate_limit", http.StatusTooManyRequests
		if rateErr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())))
		}
	case errors.As(err, &connErr), errors.As(err, &provErr):
		kind, status = mistral.ErrorKind(err), http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.APIError{Kind: kind, Message: err.Error()})
}
