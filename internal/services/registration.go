package services

import (
	"sort"
	"strings"
)

// Registration is the raw form input.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

// FieldErrors maps a form field (name, email, whatsapp) to its inline message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

// ValidateRegistration returns the cleaned input, or FieldErrors with one entry per bad field.
func ValidateRegistration(in Registration) (Registration, error) {
	errs := FieldErrors{}
	out := Registration{Name: strings.TrimSpace(in.Name)}

	if out.Name == "" {
		errs["name"] = "Por favor, digite seu nome"
	}

	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "Por favor, digite seu e-mail"
	} else if e, ok := NormEmail(in.Email); !ok {
		errs["email"] = "Por favor, digite um e-mail válido"
	} else {
		out.Email = e
	}

	if strings.TrimSpace(in.WhatsApp) == "" {
		errs["whatsapp"] = "Por favor, digite seu WhatsApp"
	} else if _, ok := NormWhatsApp(in.WhatsApp); !ok {
		errs["whatsapp"] = "Por favor, digite um WhatsApp válido (DDD + número)"
	} else {
		out.WhatsApp = FormatWhatsApp(in.WhatsApp)
	}

	if len(errs) > 0 {
		return Registration{}, errs
	}
	return out, nil
}
