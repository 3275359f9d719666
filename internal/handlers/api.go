package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/atypico/journey/internal/journey"
	"github.com/atypico/journey/internal/logging"
	"github.com/atypico/journey/internal/userstore"
)

const maxImportBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func stateBody(r *http.Request, app *App, m journey.Model) map[string]any {
	c := app.Machine.Content()
	pos, total := journey.Progress(c, m)
	body := map[string]any{
		"model":    m,
		"progress": map[string]int{"position": pos, "total": total},
	}
	if q, ok := journey.CurrentQuestion(c, m); ok {
		body["question"] = q
	}
	if m.Step == journey.StepReport || m.Step == journey.StepPremium {
		body["report"] = buildReport(r.Context(), app, m, c)
	}
	return body
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func APIState(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stateBody(r, app, app.Machine.Model()))
	}
}

func APIStats(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, app.Store.Stats(r.Context()))
	}
}

// APIExport downloads the stored aggregate as indented JSON.
func APIExport(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := app.Store.ExportSnapshot(r.Context())
		if err != nil {
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="atypico-dados.json"`)
		_, _ = io.WriteString(w, text)
	}
}

// APIImport replaces the aggregate with the request body and resumes from it.
func APIImport(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "unreadable body"})
			return
		}
		if err := app.Store.ImportSnapshot(r.Context(), string(b)); err != nil {
			if errors.Is(err, userstore.ErrImportParse) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
				return
			}
			logging.OrNop(app.Log).Warn("import snapshot", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "storage unavailable"})
			return
		}
		m := app.Machine.Mount(r.Context())
		body := stateBody(r, app, m)
		body["ok"] = true
		writeJSON(w, http.StatusOK, body)
	}
}
