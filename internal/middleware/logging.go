package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/hisab/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC with
// the caller's identity and, for document and sign-in calls, what changed
// hands. It must run after the auth interceptor so the identity is known.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx),
				"anonymous", IsAnonymous(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				code := connect.CodeOf(err)
				attrs = append(attrs, "code", code, "error", err)
				switch code {
				case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss:
					logger.Error("RPC error", attrs...)
				default:
					logger.Warn("RPC error", attrs...)
				}
				return resp, err
			}

			attrs = append(attrs, requestAttrs(req)...)
			attrs = append(attrs, responseAttrs(resp)...)
			logger.Info("RPC ok", attrs...)
			return resp, nil
		}
	}
}

// requestAttrs describes the document being written.
func requestAttrs(req connect.AnyRequest) []any {
	put, ok := req.Any().(*api.PutDocumentRequest)
	if !ok || put == nil {
		return nil
	}
	d := put.Document
	return []any{
		"expenses", len(d.Expenses),
		"loans", len(d.Loans),
		"debts", len(d.Debts),
		"todos", len(d.Todos),
	}
}

// responseAttrs reports the document version and newly issued identities.
func responseAttrs(resp connect.AnyResponse) []any {
	if resp == nil {
		return nil
	}
	switch msg := resp.Any().(type) {
	case *api.PutDocumentResponse:
		return []any{"last_updated", msg.LastUpdated}
	case *api.GetDocumentResponse:
		if msg.Document == nil {
			return []any{"found", false}
		}
		return []any{"found", true, "last_updated", msg.Document.LastUpdated}
	case *api.RegisterResponse:
		return issued(msg.User)
	case *api.LoginResponse:
		return issued(msg.User)
	case *api.SignInAnonymouslyResponse:
		return issued(msg.User)
	}
	return nil
}

func issued(u *api.User) []any {
	if u == nil {
		return nil
	}
	return []any{"issued_to", u.ID}
}
