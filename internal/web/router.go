package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/atypico/journey/internal/handlers"
)

//go:embed templates
var files embed.FS

// Router mounts the HTML presenter, the JSON API and the invite QR for app.
// app.Pages defaults to the embedded pages.
func Router(app *handlers.App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	root, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	if app.Pages == nil {
		app.Pages = root
	}
	tmpl := mustParseTemplates(root)

	// Pages
	r.Get("/", handlers.Home(tmpl, app))
	r.Post("/events/{name}", handlers.PostEvent(app))
	r.Get("/healthz", handlers.Health)
	r.Get("/invite/qr.png", handlers.InviteQR(app))

	// JSON
	r.Route("/api", func(ar chi.Router) {
		ar.Use(middleware.NoCache)
		ar.Get("/state", handlers.APIState(app))
		ar.Post("/events", handlers.APIEvent(app))
		ar.Get("/stats", handlers.APIStats(app))
		ar.Get("/export", handlers.APIExport(app))
		ar.With(middleware.Timeout(10*time.Second)).Post("/import", handlers.APIImport(app))
	})

	return r
}

func mustParseTemplates(root fs.FS) *template.Template {
	funcs := template.FuncMap{
		"year":        func() string { return time.Now().Format("2006") },
		"fmtDateTime": handlers.FmtDateTime,
		"pct": func(pos, total int) int {
			if total <= 0 {
				return 0
			}
			return pos * 100 / total
		},
	}

	p := template.New("").Funcs(funcs)
	p = template.Must(p.ParseFS(root, "layouts/*.tmpl"))
	return p
}
