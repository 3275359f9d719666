package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atypico/journey/internal/config"
	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/db"
	"github.com/atypico/journey/internal/journey"
	"github.com/atypico/journey/internal/kv"
	"github.com/atypico/journey/internal/logging"
	"github.com/atypico/journey/internal/reminders"
	"github.com/atypico/journey/internal/userstore"
)

// app is the wired object graph for one storage origin.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	slots   kv.Store
	store   *userstore.Store
	sched   *reminders.Scheduler
	machine *journey.Machine
	closers []func() error
}

func loadApp(configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	if err := a.openSlots(); err != nil {
		_ = log.Sync()
		return nil, err
	}

	// a disabled channel stays nil
	stub := reminders.LogSender{Log: log.Named("dispatch")}
	var email reminders.EmailSender
	var message reminders.MessageSender
	if cfg.EmailReminders {
		email = stub
	}
	if cfg.MessagingReminders {
		message = stub
	}
	dispatcher := reminders.NewDispatcher(log.Named("dispatch"), cfg.PublicURL,
		reminders.WithEmailSender(email),
		reminders.WithMessageSender(message))

	a.sched = reminders.New(a.slots,
		reminders.WithLogger(log.Named("reminders")),
		reminders.WithDispatcher(dispatcher))
	a.store = userstore.New(a.slots,
		userstore.WithLogger(log.Named("userstore")),
		userstore.WithDayOneHandler(a.sched))
	a.machine = journey.NewMachine(content.Default(), a.store,
		journey.WithSweeper(a.sched),
		journey.WithLogger(log.Named("journey")))
	return a, nil
}

func (a *app) openSlots() error {
	switch a.cfg.StoreDriver {
	case "memory":
		a.slots = kv.NewMemory()
	case "valkey":
		v, err := kv.NewValkey(a.cfg.ValkeyAddr)
		if err != nil {
			return fmt.Errorf("connect valkey %s: %w", a.cfg.ValkeyAddr, err)
		}
		a.slots = v
		a.closers = append(a.closers, func() error { v.Close(); return nil })
	default:
		conn, err := db.Open(a.cfg.StorePath, a.log.Named("db"))
		if err != nil {
			return fmt.Errorf("open %s: %w", a.cfg.StorePath, err)
		}
		a.slots = kv.NewSQLite(conn)
		a.closers = append(a.closers, func() error { return db.Close(conn) })
	}
	a.log.Info("store opened", zap.String("driver", a.cfg.StoreDriver))
	return nil
}

// mount sweeps due reminders and resumes the journey, once per process.
func (a *app) mount(ctx context.Context) journey.Model {
	return a.machine.Mount(ctx)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
