package handlers

import (
	"context"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/journey"
	"github.com/atypico/journey/internal/logging"
	"github.com/atypico/journey/internal/models"
	"github.com/atypico/journey/internal/report"
)

var titles = map[journey.Step]string{
	journey.StepWelcome:      "Atypico",
	journey.StepInitial:      "Atypico • Conhecendo você",
	journey.StepRegistration: "Atypico • Cadastro",
	journey.StepJourney:      "Atypico • Jornada",
	journey.StepReport:       "Atypico • Relatório",
	journey.StepPremium:      "Atypico Premium",
}

// Home renders whichever step the machine is on.
func Home(t *template.Template, app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := app.Machine.Model()
		page := string(m.Step) + ".tmpl"

		view, err := t.Clone()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if _, err := view.ParseFS(app.Pages, "pages/"+page); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}

		c := app.Machine.Content()
		q, hasQ := journey.CurrentQuestion(c, m)
		pos, total := journey.Progress(c, m)
		data := map[string]any{
			"Title":       titles[m.Step],
			"Model":       m,
			"Question":    q,
			"HasQuestion": hasQ,
			"Pos":         pos,
			"Total":       total,
			"Days":        []int{1, 2, 3},
			"Flash":       MakeFlash(r, "", ""),
			"ChannelURL":  app.ChannelURL,
			"Premium":     c.Premium,
		}
		if m.Step == journey.StepReport || m.Step == journey.StepPremium {
			data["Report"] = buildReport(r.Context(), app, m, c)
		}
		if err := view.ExecuteTemplate(w, page, data); err != nil {
			logging.OrNop(app.Log).Error("render page", zap.String("page", page), zap.Error(err))
			http.Error(w, err.Error(), 500)
			return
		}
	}
}

// buildReport prefers the stored aggregate (it carries completion times) and
// falls back to the answers held in memory when storage is unavailable.
func buildReport(ctx context.Context, app *App, m journey.Model, c *content.Content) report.Report {
	data := app.Store.Read(ctx)
	if data.JourneyData.Day3 == nil {
		data = models.UserData{
			Profile:        m.Profile,
			InitialAnswers: m.Initial,
			JourneyData:    m.Journey,
			CurrentDay:     m.Day,
		}
	}
	return report.Build(data, c)
}
