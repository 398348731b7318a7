// Package client talks to the hisab server over Connect. DocumentClient is the
// device's storage.RemoteStore; AuthClient performs sign-in.
package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/session"
	"github.com/mmynk/hisab/internal/storage"
	"github.com/mmynk/hisab/pkg/api"
)

var (
	_ storage.RemoteStore   = (*DocumentClient)(nil)
	_ session.Authenticator = (*AuthClient)(nil)
	_ session.TokenSink     = (*Credentials)(nil)
)

// Credentials holds the bearer token attached to outgoing calls.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// SetToken replaces the token. An empty token sends no Authorization header.
func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current token.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Interceptor adds the Authorization header to every unary call.
func (c *Credentials) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := c.Token(); token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// NewHTTPClient returns the HTTP client used for RPCs.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// DocumentClient reads and writes the user's remote document.
type DocumentClient struct {
	rpc api.DocumentServiceClient
}

// NewDocumentClient creates a document client for the server at baseURL.
func NewDocumentClient(httpClient connect.HTTPClient, baseURL string, creds *Credentials) *DocumentClient {
	return &DocumentClient{
		rpc: api.NewDocumentServiceClient(httpClient, baseURL,
			connect.WithInterceptors(creds.Interceptor()),
		),
	}
}

// Read returns the document, or nil, nil if the server has none.
func (c *DocumentClient) Read(ctx context.Context, userID string) (*models.Snapshot, error) {
	resp, err := c.rpc.GetDocument(ctx, connect.NewRequest(&api.GetDocumentRequest{UserID: userID}))
	if err != nil {
		if connect.CodeOf(err) == connect.CodeNotFound {
			return nil, nil
		}
		return nil, err
	}
	if resp.Msg.Document == nil {
		return nil, errors.New("server returned an empty document")
	}
	return resp.Msg.Document, nil
}

// Write replaces the document with snap.
func (c *DocumentClient) Write(ctx context.Context, userID string, snap models.Snapshot) error {
	_, err := c.rpc.PutDocument(ctx, connect.NewRequest(&api.PutDocumentRequest{
		UserID:   userID,
		Document: snap,
	}))
	return err
}

// AuthClient signs in against the server's AuthService.
type AuthClient struct {
	rpc api.AuthServiceClient
}

// NewAuthClient creates an auth client for the server at baseURL.
func NewAuthClient(httpClient connect.HTTPClient, baseURL string, creds *Credentials) *AuthClient {
	return &AuthClient{
		rpc: api.NewAuthServiceClient(httpClient, baseURL,
			connect.WithInterceptors(creds.Interceptor()),
		),
	}
}

// Login exchanges email and password for a token.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*api.User, string, error) {
	resp, err := c.rpc.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return nil, "", err
	}
	return resp.Msg.User, resp.Msg.Token, nil
}

// Register creates an account and returns its token.
func (c *AuthClient) Register(ctx context.Context, email, displayName, password string) (*api.User, string, error) {
	resp, err := c.rpc.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	}))
	if err != nil {
		return nil, "", err
	}
	return resp.Msg.User, resp.Msg.Token, nil
}

// SignInAnonymously creates an anonymous identity and returns its token.
func (c *AuthClient) SignInAnonymously(ctx context.Context) (*api.User, string, error) {
	resp, err := c.rpc.SignInAnonymously(ctx, connect.NewRequest(&api.SignInAnonymouslyRequest{}))
	if err != nil {
		return nil, "", err
	}
	return resp.Msg.User, resp.Msg.Token, nil
}

// CurrentUser validates the attached token and returns its user.
func (c *AuthClient) CurrentUser(ctx context.Context) (*api.User, error) {
	resp, err := c.rpc.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.User, nil
}
