package middleware

import "net/http"

// MaxBytes returns middleware that caps request bodies at n bytes.
// Reads beyond the cap fail with *http.MaxBytesError. A non-positive n
// disables the cap.
func MaxBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
