package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/hisab/internal/auth"
	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/pkg/api"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLoggingInterceptor_PutDocument(t *testing.T) {
	logger, buf := newTestLogger()
	ctx := WithClaims(context.Background(), &auth.Claims{UserID: "u1"})

	doc := models.EmptySnapshot()
	doc.Expenses = []models.Expense{{ID: "e1", Title: "চা", Amount: decimal.NewFromInt(20)}}
	req := connect.NewRequest(&api.PutDocumentRequest{UserID: "u1", Document: doc})

	next := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&api.PutDocumentResponse{LastUpdated: "2026-10-18T09:30:00.000Z"}), nil
	}
	_, err := LoggingInterceptor(logger)(next)(ctx, req)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="RPC ok"`)
	assert.Contains(t, out, "user_id=u1")
	assert.Contains(t, out, "anonymous=false")
	assert.Contains(t, out, "expenses=1")
	assert.Contains(t, out, "last_updated=2026-10-18T09:30:00.000Z")
}

func TestLoggingInterceptor_MissingDocument(t *testing.T) {
	logger, buf := newTestLogger()
	ctx := WithClaims(context.Background(), &auth.Claims{UserID: "anon-1", Anonymous: true})
	req := connect.NewRequest(&api.GetDocumentRequest{UserID: "anon-1"})

	next := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&api.GetDocumentResponse{}), nil
	}
	_, err := LoggingInterceptor(logger)(next)(ctx, req)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "anonymous=true")
	assert.Contains(t, buf.String(), "found=false")
}

func TestLoggingInterceptor_ErrorLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"client error", connect.NewError(connect.CodePermissionDenied, errors.New("not your document")), "level=WARN"},
		{"server error", connect.NewError(connect.CodeInternal, errors.New("disk full")), "level=ERROR"},
		{"plain error", errors.New("boom"), "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger()
			next := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
				return nil, tt.err
			}
			req := connect.NewRequest(&api.GetDocumentRequest{UserID: "u2"})
			_, err := LoggingInterceptor(logger)(next)(context.Background(), req)
			require.Error(t, err)
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), `msg="RPC error"`)
		})
	}
}
