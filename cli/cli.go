// Package cli wires the controller into a command line front end. Every
// command is one user action from the UI: it restores the session, runs
// the action to quiescence, prints the resulting state, and exits. watch
// is the exception: it keeps the sync loop polling and re-renders on every
// state change.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	webchat "github.com/webchat-dev/webchat/app"
	"github.com/webchat-dev/webchat/core"
	"github.com/webchat-dev/webchat/store"
)

var (
	flagServerURL string
	flagStateFile string
	flagVerbose   bool

	config *webchat.Config
)

var rootCmd = &cobra.Command{
	Use:           "webchat",
	Short:         "Command line client for the WebChat backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = webchat.LoadConfig()
		if err != nil {
			return err
		}
		if flagServerURL != "" {
			config.ServerURL = flagServerURL
		}
		if flagStateFile != "" {
			config.StateFile = flagStateFile
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagServerURL, "server", "", "backend base URL (overrides config)")
	flags.StringVar(&flagStateFile, "state-file", "", "session state file (overrides config)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return webchat.NewLogger(level)
}

// newApp builds a started controller plus its teardown. Callers must call
// the returned close func.
func newApp(cmd *cobra.Command, opts ...webchat.AppOption) (*webchat.App, func(), error) {
	sessions, err := store.NewSQLiteSessionStore(config.StateFile)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]webchat.AppOption{webchat.WithLogger(logger())}, opts...)
	a := webchat.New(cmd.Context(), config, sessions, opts...)
	a.Start()
	return a, func() {
		a.Stop()
		sessions.Close()
	}, nil
}

// resume restores the persisted session and fails if none survives the
// validation probe.
func resume(a *webchat.App) (core.Snapshot, error) {
	a.ValidateSession()
	a.Wait()
	snap := a.Snapshot()
	if !snap.Session.Established() {
		return snap, errors.New("not logged in (run: webchat login)")
	}
	return snap, nil
}

// reportStatus surfaces the controller's status notice as the command
// outcome.
func reportStatus(snap core.Snapshot) error {
	if snap.Status.Kind == core.StatusError && snap.Status.Text != "" {
		return errors.New(snap.Status.Text)
	}
	if snap.Status.Text != "" {
		fmt.Println(snap.Status.Text)
	}
	return nil
}
