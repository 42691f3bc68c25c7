package apiutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/pickupgames/internal/viewstate"
)

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderHTMLComponent renders into a buffer first so a failed render never
// sends a partial fragment. The components are rendered in order.
func RenderHTMLComponent(ctx context.Context, w http.ResponseWriter, headers map[string]string, logMsg string, components ...templ.Component) bool {
	logger := log.Ctx(ctx)
	var buf bytes.Buffer
	for _, component := range components {
		if component == nil {
			continue
		}
		if err := component.Render(ctx, &buf); err != nil {
			logger.Error().Err(err).Msg(logMsg)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return false
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
	return true
}

// RequireSession returns the visitor session set by the session middleware.
func RequireSession(w http.ResponseWriter, r *http.Request) (*viewstate.Session, bool) {
	session := viewstate.SessionFromContext(r.Context())
	if session == nil {
		log.Ctx(r.Context()).Error().Msg("Visitor session missing from request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return session, true
}
