package middleware

import (
	"net/http"

	apperrors "roomly/pkg/errors"
)

const CodeRequestTooLarge = "REQUEST_TOO_LARGE"

// MaxRequestSize caps the request body. Bodies that announce a larger length
// are rejected up front; others fail on the read past the limit.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = apperrors.WriteError(w, apperrors.New(
					CodeRequestTooLarge,
					"Request body too large",
					http.StatusRequestEntityTooLarge,
				))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
