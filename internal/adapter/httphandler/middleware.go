package httphandler

import (
	"mime"
	"net/http"
)

// AllowJSON rejects requests with a body that is not JSON.
func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeJSON(w, http.StatusUnsupportedMediaType,
				ErrorResponse{Error: "invalid media type"})
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}
