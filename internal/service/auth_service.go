package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/hisab/internal/auth"
	"github.com/mmynk/hisab/internal/middleware"
	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	if req.Msg.Email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidEmail)
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{User: toAPIUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{User: toAPIUser(user), Token: token}), nil
}

// SignInAnonymously creates a credential-less identity and returns its token.
func (s *AuthService) SignInAnonymously(ctx context.Context, req *connect.Request[api.SignInAnonymouslyRequest]) (*connect.Response[api.SignInAnonymouslyResponse], error) {
	user, err := s.authenticator.RegisterAnonymous(ctx)
	if err != nil {
		s.logger.Error("Anonymous sign-in failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Anonymous user created", "user_id", user.ID)
	return connect.NewResponse(&api.SignInAnonymouslyResponse{User: toAPIUser(user), Token: token}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	// Get user ID from context (set by auth middleware)
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.authenticator.Lookup(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load user", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

func (s *AuthService) issue(user *models.User) (string, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", connect.NewError(connect.CodeInternal, err)
	}
	return token, nil
}

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Anonymous:   user.Anonymous,
		CreatedAt:   user.CreatedAt,
	}
}
