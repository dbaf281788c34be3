package middleware

import "net/http"

// LimitBytes caps the request body; oversized uploads fail inside the
// handler's read with a request-too-large error instead of exhausting memory.
func LimitBytes(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
