package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/hisab/internal/auth"
	"github.com/mmynk/hisab/internal/metrics"
	"github.com/mmynk/hisab/internal/middleware"
	"github.com/mmynk/hisab/internal/storage"
	"github.com/mmynk/hisab/pkg/api"
)

// Deps are the collaborators of the RPC services.
type Deps struct {
	Users     storage.UserStore
	Documents storage.RemoteStore
	JWT       *auth.JWTManager
	Logger    *slog.Logger
	Metrics   *metrics.RPC // optional
}

// Register mounts AuthService and DocumentService on mux.
//
// AuthService accepts anonymous calls (GetCurrentUser checks the identity
// itself); DocumentService requires a valid token.
func Register(mux *http.ServeMux, d Deps) {
	common := []connect.Interceptor{}
	if d.Metrics != nil {
		common = append(common, middleware.MetricsInterceptor(d.Metrics))
	}

	authInterceptors := append(append([]connect.Interceptor{}, common...),
		middleware.OptionalAuth(d.JWT),
		middleware.LoggingInterceptor(d.Logger),
	)
	authPath, authHandler := api.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(d.Users), d.JWT, d.Logger),
		connect.WithInterceptors(authInterceptors...),
	)
	mux.Handle(authPath, authHandler)

	docInterceptors := append(append([]connect.Interceptor{}, common...),
		middleware.RequireAuth(d.JWT),
		middleware.LoggingInterceptor(d.Logger),
	)
	docPath, docHandler := api.NewDocumentServiceHandler(
		NewDocumentService(d.Documents, d.Logger),
		connect.WithInterceptors(docInterceptors...),
	)
	mux.Handle(docPath, docHandler)
}
