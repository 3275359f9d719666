package reminders

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atypico/journey/internal/logging"
	"github.com/atypico/journey/internal/models"
	svc "github.com/atypico/journey/internal/services"
)

// EmailSender delivers an HTML email. Fire-and-forget: nil means handed off.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// MessageSender delivers a plain-text chat message (WhatsApp in production).
type MessageSender interface {
	SendMessage(ctx context.Context, to, text string) error
}

// LogSender is the stub channel: it only records the intent to deliver.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) SendEmail(_ context.Context, to, subject, _ string) error {
	logging.OrNop(s.Log).Info("email reminder", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s LogSender) SendMessage(_ context.Context, to, text string) error {
	logging.OrNop(s.Log).Info("message reminder", zap.String("to", to), zap.Int("len", len(text)))
	return nil
}

// Dispatcher fans a due reminder out to the email and messaging channels.
// Each channel runs regardless of the other's outcome.
type Dispatcher struct {
	log       *zap.Logger
	publicURL string
	email     EmailSender
	message   MessageSender
}

type DispatchOption func(*Dispatcher)

// WithEmailSender replaces the email channel; nil disables it.
func WithEmailSender(s EmailSender) DispatchOption { return func(d *Dispatcher) { d.email = s } }

// WithMessageSender replaces the messaging channel; nil disables it.
func WithMessageSender(s MessageSender) DispatchOption { return func(d *Dispatcher) { d.message = s } }

func NewDispatcher(log *zap.Logger, publicURL string, opts ...DispatchOption) *Dispatcher {
	log = logging.OrNop(log)
	stub := LogSender{Log: log}
	d := &Dispatcher{log: log, publicURL: publicURL, email: stub, message: stub}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch sends rec on every enabled channel and returns one message per failed channel.
func (d *Dispatcher) Dispatch(ctx context.Context, rec models.ReminderRecord) []string {
	var failures []string
	deliveryID := uuid.NewString()
	link := DayLink(d.publicURL, rec.Day)

	if d.email != nil && rec.Contact.Email != "" {
		body, err := EmailBody(rec.Contact.Name, rec.Message, link)
		if err == nil {
			err = d.email.SendEmail(ctx, rec.Contact.Email, EmailSubject(rec.Day), body)
		}
		if err != nil {
			d.log.Warn("email channel failed", zap.String("delivery", deliveryID), zap.String("reminder", rec.ID), zap.Error(err))
			failures = append(failures, "email: "+err.Error())
		}
	}

	if d.message != nil && rec.Contact.WhatsApp != "" {
		if err := d.message.SendMessage(ctx, svc.DigitsOnly(rec.Contact.WhatsApp), MessageBody(rec.Message, link)); err != nil {
			d.log.Warn("messaging channel failed", zap.String("delivery", deliveryID), zap.String("reminder", rec.ID), zap.Error(err))
			failures = append(failures, "messaging: "+err.Error())
		}
	}

	d.log.Info("reminder dispatched", zap.String("delivery", deliveryID), zap.String("reminder", rec.ID),
		zap.Int("day", rec.Day), zap.Int("failures", len(failures)))
	return failures
}

// DayLink deep-links into a journey day. Empty when no public URL is configured.
func DayLink(publicURL string, day int) string {
	if publicURL == "" {
		return ""
	}
	return publicURL + "?day=" + strconv.Itoa(day)
}

func EmailSubject(day int) string {
	return fmt.Sprintf("Atypico - Continue sua jornada (Dia %d)", day)
}

func MessageBody(message, link string) string {
	if link == "" {
		return message
	}
	return message + "\n\n" + link
}

var emailTmpl = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #8B5CF6;">Olá, {{.Name}}! 💜</h2>
  <p style="font-size: 16px; line-height: 1.6; color: #374151;">{{.Message}}</p>
  {{if .Link}}<a href="{{.Link}}" style="display: inline-block; background: #8B5CF6; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 20px;">Continuar minha jornada</a>{{end}}
  <p style="font-size: 14px; color: #6B7280; margin-top: 30px;">Você está fazendo o melhor que pode. Continue assim! 🌱</p>
</div>`))

// EmailBody renders the reminder email. Name and message are HTML-escaped.
func EmailBody(name, message, link string) (string, error) {
	var buf bytes.Buffer
	err := emailTmpl.Execute(&buf, map[string]string{"Name": name, "Message": message, "Link": link})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
