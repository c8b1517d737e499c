package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"toolhaven/pkg/errs"
)

// Every response uses one envelope: {"data": ...} on success,
// {"error": {"kind": ..., "message": ...}} on failure. Presentation code
// never needs exception handling for expected failure paths.

type errorBody struct {
	Kind    errs.Kind `json:"kind"`
	Message string    `json:"message"`
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]interface{}{"data": v})
}

func writeError(w http.ResponseWriter, kind errs.Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.HTTPStatus())
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]interface{}{"error": errorBody{Kind: kind, Message: message}})
}

// respondError generalizes backend/unknown failures for public-facing
// screens; validation and auth kinds keep their messages.
func respondError(w http.ResponseWriter, lg *zap.SugaredLogger, err error) {
	kind := errs.KindOf(err)
	switch kind {
	case errs.KindBackend, errs.KindUnknown:
		lg.Errorw("request failed", "kind", kind, "error", err)
		writeError(w, kind, "something went wrong, please try again")
	case errs.KindNotFound:
		lg.Debugw("not found", "error", err)
		writeError(w, kind, err.Error())
	default:
		writeError(w, kind, err.Error())
	}
}

// respondAdminError surfaces the underlying message as-is; admin screens get
// the detail.
func respondAdminError(w http.ResponseWriter, lg *zap.SugaredLogger, err error) {
	kind := errs.KindOf(err)
	if kind == errs.KindBackend || kind == errs.KindUnknown {
		lg.Errorw("admin request failed", "kind", kind, "error", err)
	}
	writeError(w, kind, err.Error())
}
