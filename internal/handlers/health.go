package handlers

import "net/http"

// Liveness answers 204 with no body; it only proves the process serves HTTP.
func Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Version surfaces service metadata.
func Version(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "feedback-fountain-api",
			"version": version,
		})
	}
}
