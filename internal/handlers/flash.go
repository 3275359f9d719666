package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atypico/journey/internal/journey"
	"github.com/atypico/journey/internal/services"
)

type Flash struct {
	Kind string // "ok" or "error"
	Text string
}

var okText = map[string]string{
	"imported": "Dados importados.",
	"reset":    "Seus dados foram apagados.",
}

var errText = map[string]string{
	"selection_required":   "Escolha pelo menos uma opção para continuar.",
	"answer_required":      "Escreva sua resposta para continuar.",
	"invalid_event":        "Essa ação não está disponível agora.",
	"invalid_registration": "Confira os campos destacados.",
}

// errorKind maps a transition error to its ?error= key.
func errorKind(err error) string {
	var fe services.FieldErrors
	switch {
	case errors.Is(err, journey.ErrSelectionRequired):
		return "selection_required"
	case errors.Is(err, journey.ErrAnswerRequired):
		return "answer_required"
	case errors.As(err, &fe):
		return "invalid_registration"
	}
	return "invalid_event"
}

// MakeFlash reads ?ok= / ?error= and falls back to the handler's own messages.
func MakeFlash(r *http.Request, errStr, msgStr string) *Flash {
	q := r.URL.Query()
	errRaw := strings.TrimSpace(q.Get("error"))
	okRaw := strings.TrimSpace(q.Get("ok"))

	if errRaw != "" {
		if t, ok := errText[strings.ToLower(errRaw)]; ok {
			return &Flash{Kind: "error", Text: t}
		}
		return &Flash{Kind: "error", Text: errRaw}
	}
	if okRaw != "" {
		if t, ok := okText[strings.ToLower(okRaw)]; ok {
			return &Flash{Kind: "ok", Text: t}
		}
		return &Flash{Kind: "ok", Text: okRaw}
	}

	if errStr != "" {
		return &Flash{Kind: "error", Text: errStr}
	}
	if msgStr != "" {
		return &Flash{Kind: "ok", Text: msgStr}
	}
	return nil
}
