package handlers

import (
	"net/http"

	"toolhaven/pkg/errs"
)

// BackendUnavailable answers every data route when the backend is
// unconfigured or unreachable. Missing configuration degrades to this
// visible connection error instead of crashing the process.
func BackendUnavailable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errs.KindBackend, "backend unavailable")
	}
}
