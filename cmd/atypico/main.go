package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atypico/journey/internal/handlers"
	"github.com/atypico/journey/internal/tui"
	"github.com/atypico/journey/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "atypico",
		Short:         "Three-day observation journey for parents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(newServeCmd(&configFile))
	root.AddCommand(newTUICmd(&configFile))
	root.AddCommand(newSweepCmd(&configFile))
	root.AddCommand(newStatsCmd(&configFile))
	root.AddCommand(newExportCmd(&configFile))
	root.AddCommand(newImportCmd(&configFile))
	root.AddCommand(newResetCmd(&configFile))
	return root
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web journey and JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a.mount(ctx)

			srv := &http.Server{
				Addr: a.cfg.Addr,
				Handler: web.Router(&handlers.App{
					Machine:    a.machine,
					Store:      a.store,
					ChannelURL: a.cfg.ChannelURL,
					Log:        a.log.Named("web"),
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("addr", a.cfg.Addr))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdown)
			}
		},
	}
}

func newTUICmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the journey in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()
			a.mount(cmd.Context())
			return tui.Run(cmd.Context(), a.machine, a.store, a.cfg.ChannelURL)
		},
	}
}

func newSweepCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Dispatch due reminders now and print every record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()
			recs, err := a.sched.SweepNow(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, recs)
		},
	}
}

func newStatsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count stored users by completed day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()
			return printJSON(cmd, a.store.Stats(cmd.Context()))
		},
	}
}

func newExportCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the stored user record as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()
			text, err := a.store.ExportSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newImportCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored user record with an exported snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.store.ImportSnapshot(cmd.Context(), string(b)); err != nil {
				return err
			}
			m := a.mount(cmd.Context())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported; resumes at %s (day %d)\n", m.Step, m.Day)
			return err
		},
	}
}

func newResetCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored user record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.store.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "user data cleared")
			return err
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
