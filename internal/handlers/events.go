package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/atypico/journey/internal/journey"
)

// PostEvent applies a form-posted event and redirects back to the page.
func PostEvent(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		ev, err := journey.ParseEvent(chi.URLParam(r, "name"), journey.Fields{
			Option:   r.FormValue("option"),
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			WhatsApp: r.FormValue("whatsapp"),
			Text:     r.FormValue("text"),
		})
		if err == nil {
			_, err = app.Machine.Dispatch(r.Context(), ev)
		}
		if err != nil {
			http.Redirect(w, r, "/?error="+url.QueryEscape(errorKind(err)), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

type eventRequest struct {
	Event string `json:"event"`
	journey.Fields
}

// APIEvent is PostEvent for JSON clients: it answers with the new state.
func APIEvent(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req eventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
			return
		}
		ev, err := journey.ParseEvent(req.Event, req.Fields)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		m, err := app.Machine.Dispatch(r.Context(), ev)
		body := stateBody(r, app, m)
		if err != nil {
			body["error"] = err.Error()
			body["errorKind"] = errorKind(err)
			status := http.StatusUnprocessableEntity
			if errors.Is(err, journey.ErrInvalidEvent) {
				status = http.StatusConflict
			}
			writeJSON(w, status, body)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}
