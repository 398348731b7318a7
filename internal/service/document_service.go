package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/hisab/internal/auth"
	"github.com/mmynk/hisab/internal/middleware"
	"github.com/mmynk/hisab/internal/storage"
	"github.com/mmynk/hisab/pkg/api"
)

var (
	errNoDocument = errors.New("no document for user")
	errForeignDoc = errors.New("document belongs to another user")
)

// DocumentService implements the DocumentService RPC interface: one
// full-replace document per user.
type DocumentService struct {
	store  storage.RemoteStore
	logger *slog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(store storage.RemoteStore, logger *slog.Logger) *DocumentService {
	return &DocumentService{
		store:  store,
		logger: logger,
	}
}

// GetDocument returns the caller's document, or NotFound if it was never written.
func (s *DocumentService) GetDocument(ctx context.Context, req *connect.Request[api.GetDocumentRequest]) (*connect.Response[api.GetDocumentResponse], error) {
	if err := authorize(ctx, req.Msg.UserID); err != nil {
		return nil, err
	}

	doc, err := s.store.Read(ctx, req.Msg.UserID)
	if err != nil {
		s.logger.Error("Failed to read document", "user_id", req.Msg.UserID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if doc == nil {
		return nil, connect.NewError(connect.CodeNotFound, errNoDocument)
	}

	s.logger.Debug("Document read", "user_id", req.Msg.UserID, "last_updated", doc.LastUpdated)
	return connect.NewResponse(&api.GetDocumentResponse{Document: doc}), nil
}

// PutDocument replaces every field of the caller's document.
func (s *DocumentService) PutDocument(ctx context.Context, req *connect.Request[api.PutDocumentRequest]) (*connect.Response[api.PutDocumentResponse], error) {
	if err := authorize(ctx, req.Msg.UserID); err != nil {
		return nil, err
	}

	doc := req.Msg.Document
	if err := s.store.Write(ctx, req.Msg.UserID, doc); err != nil {
		s.logger.Error("Failed to write document", "user_id", req.Msg.UserID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	written, err := s.store.Read(ctx, req.Msg.UserID)
	if err != nil || written == nil {
		return nil, connect.NewError(connect.CodeInternal, errors.Join(errNoDocument, err))
	}

	s.logger.Info("Document replaced",
		"user_id", req.Msg.UserID,
		"expenses", len(doc.Expenses),
		"loans", len(doc.Loans),
		"debts", len(doc.Debts),
		"todos", len(doc.Todos),
	)
	return connect.NewResponse(&api.PutDocumentResponse{LastUpdated: written.LastUpdated}), nil
}

// authorize allows a caller to touch only their own document.
func authorize(ctx context.Context, userID string) error {
	caller := middleware.GetUserID(ctx)
	if caller == "" {
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if userID == "" || userID != caller {
		return connect.NewError(connect.CodePermissionDenied, errForeignDoc)
	}
	return nil
}
