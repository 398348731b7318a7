package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/hisab/internal/auth"
	"github.com/mmynk/hisab/internal/config"
	"github.com/mmynk/hisab/internal/metrics"
	"github.com/mmynk/hisab/internal/middleware"
	"github.com/mmynk/hisab/internal/service"
	"github.com/mmynk/hisab/internal/storage/sqlite"
	"github.com/mmynk/hisab/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// serverOptions holds the flags of the server command.
type serverOptions struct {
	Config string
}

func newRootCommand() *cobra.Command {
	opts := &serverOptions{}

	cmd := &cobra.Command{
		Use:   "hisab-server",
		Short: "hisab sync server",
		Long: `Serve the per-user documents and the identity service over Connect.

Settings come from the embedded defaults, an optional hisab.yaml and
HISAB_* environment variables (HISAB_JWT_SECRET is required).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config file (default ./hisab.yaml or $HOME/.hisab/hisab.yaml)")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *serverOptions) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(cfg.Log.Level)

	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Server.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	service.Register(mux, service.Deps{
		Users:     store,
		Documents: store,
		JWT:       auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireTime),
		Logger:    logger,
		Metrics:   metrics.NewRPC(reg),
	})
	if cfg.Server.MetricsPath != "" {
		mux.Handle(cfg.Server.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	if cfg.Server.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.Server.StaticPath)
		if err != nil {
			return fmt.Errorf("failed to resolve static path: %w", err)
		}
		logger.Info("Serving static files", "path", staticDir)
		mux.Handle("/", staticHandler(staticDir))
	}

	// h2c for HTTP/2 without TLS (required for Connect streaming clients)
	handler := h2c.NewHandler(middleware.HTTPLogging(logger, middleware.CORS(mux)), &http2.Server{})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting", "address", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// staticHandler serves the web client from dir. Unknown paths fall back to
// index.html; RPC paths never do.
func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/hisab.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}
