package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/hisab/internal/auth"
	"github.com/mmynk/hisab/internal/metrics"
	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/storage/sqlite"
	"github.com/mmynk/hisab/pkg/api"
)

type testServer struct {
	auth    api.AuthServiceClient
	docs    api.DocumentServiceClient
	metrics *metrics.RPC
}

// setupTestServer starts both services over a temp database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	m := metrics.NewRPC(prometheus.NewRegistry())
	mux := http.NewServeMux()
	Register(mux, Deps{
		Users:     store,
		Documents: store,
		JWT:       auth.NewJWTManager("test-secret", time.Hour),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:   m,
	})
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		auth:    api.NewAuthServiceClient(http.DefaultClient, server.URL),
		docs:    api.NewDocumentServiceClient(http.DefaultClient, server.URL),
		metrics: m,
	}
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	reg, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "rina@example.com",
		DisplayName: "Rina",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.Token == "" || reg.Msg.User.ID == "" {
		t.Fatalf("expected token and user, got %+v", reg.Msg)
	}

	_, err = s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:    "rina@example.com",
		Password: "correct-horse",
	}))
	if connect.CodeOf(err) != connect.CodeAlreadyExists {
		t.Errorf("duplicate register: code = %v, want AlreadyExists", connect.CodeOf(err))
	}

	login, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "rina@example.com",
		Password: "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.ID != reg.Msg.User.ID {
		t.Errorf("login user = %q, want %q", login.Msg.User.ID, reg.Msg.User.ID)
	}

	_, err = s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "rina@example.com",
		Password: "wrong-password",
	}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("bad password: code = %v, want Unauthenticated", connect.CodeOf(err))
	}

	me, err := s.auth.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, login.Msg.Token))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.DisplayName != "Rina" {
		t.Errorf("DisplayName = %q, want Rina", me.Msg.User.DisplayName)
	}

	_, err = s.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("no token: code = %v, want Unauthenticated", connect.CodeOf(err))
	}
}

func TestDocumentLifecycle(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	anon, err := s.auth.SignInAnonymously(ctx, connect.NewRequest(&api.SignInAnonymouslyRequest{}))
	if err != nil {
		t.Fatalf("SignInAnonymously failed: %v", err)
	}
	if !anon.Msg.User.Anonymous {
		t.Error("expected anonymous user")
	}
	userID, token := anon.Msg.User.ID, anon.Msg.Token

	_, err = s.docs.GetDocument(ctx, withToken(&api.GetDocumentRequest{UserID: userID}, token))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("fresh user: code = %v, want NotFound", connect.CodeOf(err))
	}

	doc := models.EmptySnapshot()
	doc.Expenses = []models.Expense{{ID: "a", Title: "বাজার খরচ", Amount: decimal.NewFromInt(100), Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}}
	put, err := s.docs.PutDocument(ctx, withToken(&api.PutDocumentRequest{UserID: userID, Document: doc}, token))
	if err != nil {
		t.Fatalf("PutDocument failed: %v", err)
	}
	if put.Msg.LastUpdated == "" {
		t.Error("expected lastUpdated to be stamped")
	}

	got, err := s.docs.GetDocument(ctx, withToken(&api.GetDocumentRequest{UserID: userID}, token))
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if len(got.Msg.Document.Expenses) != 1 || got.Msg.Document.Expenses[0].ID != "a" {
		t.Fatalf("expenses = %+v, want the written expense", got.Msg.Document.Expenses)
	}
	if !got.Msg.Document.Expenses[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("amount = %s, want 100", got.Msg.Document.Expenses[0].Amount)
	}
	if len(got.Msg.Document.Categories) != 5 {
		t.Errorf("categories = %v, want the five defaults", got.Msg.Document.Categories)
	}

	// full replace: a write without expenses clears them
	_, err = s.docs.PutDocument(ctx, withToken(&api.PutDocumentRequest{UserID: userID, Document: models.EmptySnapshot()}, token))
	if err != nil {
		t.Fatalf("second PutDocument failed: %v", err)
	}
	got, _ = s.docs.GetDocument(ctx, withToken(&api.GetDocumentRequest{UserID: userID}, token))
	if len(got.Msg.Document.Expenses) != 0 {
		t.Errorf("expenses after replace = %+v, want none", got.Msg.Document.Expenses)
	}
}

func TestDocumentAuthorization(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	alice, _ := s.auth.SignInAnonymously(ctx, connect.NewRequest(&api.SignInAnonymouslyRequest{}))
	bob, _ := s.auth.SignInAnonymously(ctx, connect.NewRequest(&api.SignInAnonymouslyRequest{}))

	_, err := s.docs.GetDocument(ctx, connect.NewRequest(&api.GetDocumentRequest{UserID: alice.Msg.User.ID}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("no token: code = %v, want Unauthenticated", connect.CodeOf(err))
	}

	_, err = s.docs.PutDocument(ctx, withToken(&api.PutDocumentRequest{
		UserID:   alice.Msg.User.ID,
		Document: models.EmptySnapshot(),
	}, bob.Msg.Token))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("foreign write: code = %v, want PermissionDenied", connect.CodeOf(err))
	}

	_, err = s.docs.GetDocument(ctx, withToken(&api.GetDocumentRequest{UserID: alice.Msg.User.ID}, "not-a-jwt"))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("bad token: code = %v, want Unauthenticated", connect.CodeOf(err))
	}

	denied := s.metrics.Requests.WithLabelValues(api.DocumentServicePutDocumentProcedure, connect.CodePermissionDenied.String())
	if got := testutil.ToFloat64(denied); got != 1 {
		t.Errorf("permission_denied count = %v, want 1", got)
	}
}
