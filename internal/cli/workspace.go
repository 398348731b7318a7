package cli

import (
	"errors"
	"io"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/hisab/internal/app"
	"github.com/mmynk/hisab/internal/client"
	"github.com/mmynk/hisab/internal/config"
	"github.com/mmynk/hisab/internal/ledger"
	"github.com/mmynk/hisab/internal/session"
	"github.com/mmynk/hisab/internal/storage/sqlite"
	"github.com/mmynk/hisab/internal/view"
	"github.com/mmynk/hisab/pkg/logging"
)

// workspace is the opened device state for one command.
type workspace struct {
	app   *app.App
	out   *OutputFormatter
	store *sqlite.SQLiteStore
}

func openWorkspace(cmd *cobra.Command, opts *RootOptions) (*workspace, error) {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if err := cfg.ValidateClient(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	store, err := sqlite.New(cfg.Client.DataPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open device storage", err)
	}
	out.VerboseLog("Device storage: %s", cfg.Client.DataPath)

	creds := &client.Credentials{}
	httpClient := client.NewHTTPClient(cfg.Client.Timeout)
	a := app.New(app.Deps{
		Local:             store,
		Remote:            client.NewDocumentClient(httpClient, cfg.Client.RemoteURL, creds),
		Session:           session.NewManager(store, client.NewAuthClient(httpClient, cfg.Client.RemoteURL, creds), creds, logger),
		Logger:            logger,
		Timeout:           cfg.Client.Timeout,
		AnonymousFallback: cfg.Client.AnonymousFallback,
		OnChange: func(v view.View) {
			logger.Debug("View refreshed", "view", v.Name())
		},
	})
	if err := a.Open(cmd.Context()); err != nil {
		store.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open local data", err)
	}
	return &workspace{app: a, out: out, store: store}, nil
}

// Close waits for the pending remote write and closes device storage.
func (w *workspace) Close() {
	w.app.Close()
	w.store.Close()
}

// render prints v in text mode and data in JSON mode.
func (w *workspace) render(v view.View, data any) error {
	return w.out.Success(data, func(out io.Writer) error {
		return w.app.Render(out, v)
	})
}

// withWorkspace opens the workspace, runs fn and maps action errors to
// exit codes.
func withWorkspace(cmd *cobra.Command, opts *RootOptions, fn func(w *workspace) error) error {
	w, err := openWorkspace(cmd, opts)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := fn(w); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		if isUserError(err) {
			return WrapExitError(ExitFailure, cmd.CommandPath(), err)
		}
		return WrapExitError(ExitCommandError, cmd.CommandPath(), err)
	}
	return nil
}

// isUserError reports whether err is caused by the input rather than the
// environment.
func isUserError(err error) bool {
	switch {
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrDuplicate),
		errors.Is(err, session.ErrNoSession):
		return true
	}
	switch connect.CodeOf(err) {
	case connect.CodeUnauthenticated, connect.CodeAlreadyExists, connect.CodeInvalidArgument:
		return true
	}
	return false
}
