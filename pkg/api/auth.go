package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceClient is a client for the hisab.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	SignInAnonymously(context.Context, *connect.Request[SignInAnonymouslyRequest]) (*connect.Response[SignInAnonymouslyResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the hisab.v1.AuthService
// service. The URL is the server's base URL (e.g. https://api.example.com).
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &authServiceClient{
		register: connect.NewClient[RegisterRequest, RegisterResponse](
			httpClient, baseURL+AuthServiceRegisterProcedure, opts...,
		),
		login: connect.NewClient[LoginRequest, LoginResponse](
			httpClient, baseURL+AuthServiceLoginProcedure, opts...,
		),
		signInAnonymously: connect.NewClient[SignInAnonymouslyRequest, SignInAnonymouslyResponse](
			httpClient, baseURL+AuthServiceSignInAnonymouslyProcedure, opts...,
		),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](
			httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...,
		),
	}
}

type authServiceClient struct {
	register          *connect.Client[RegisterRequest, RegisterResponse]
	login             *connect.Client[LoginRequest, LoginResponse]
	signInAnonymously *connect.Client[SignInAnonymouslyRequest, SignInAnonymouslyResponse]
	getCurrentUser    *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) SignInAnonymously(ctx context.Context, req *connect.Request[SignInAnonymouslyRequest]) (*connect.Response[SignInAnonymouslyResponse], error) {
	return c.signInAnonymously.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// AuthServiceHandler is an implementation of the hisab.v1.AuthService service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	SignInAnonymously(context.Context, *connect.Request[SignInAnonymouslyRequest]) (*connect.Response[SignInAnonymouslyResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	signInAnonymously := connect.NewUnaryHandler(AuthServiceSignInAnonymouslyProcedure, svc.SignInAnonymously, opts...)
	getCurrentUser := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceSignInAnonymouslyProcedure:
			signInAnonymously.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUser.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
