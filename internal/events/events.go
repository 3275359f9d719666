package events

import (
	"context"
	"time"
)

// DayOneCompleted is raised by the user store after day 1 answers are persisted.
type DayOneCompleted struct {
	Name        string
	Email       string
	WhatsApp    string
	CompletedAt time.Time
}

// DayOneHandler reacts to the day-1 completion event (the reminder scheduler does).
type DayOneHandler interface {
	OnDayOneCompleted(ctx context.Context, ev DayOneCompleted) error
}

// DayOneHandlerFunc adapts a plain function to DayOneHandler.
type DayOneHandlerFunc func(ctx context.Context, ev DayOneCompleted) error

func (f DayOneHandlerFunc) OnDayOneCompleted(ctx context.Context, ev DayOneCompleted) error {
	return f(ctx, ev)
}
