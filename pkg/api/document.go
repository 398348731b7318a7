package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// DocumentServiceClient is a client for the hisab.v1.DocumentService service.
type DocumentServiceClient interface {
	GetDocument(context.Context, *connect.Request[GetDocumentRequest]) (*connect.Response[GetDocumentResponse], error)
	PutDocument(context.Context, *connect.Request[PutDocumentRequest]) (*connect.Response[PutDocumentResponse], error)
}

// NewDocumentServiceClient constructs a client for the
// hisab.v1.DocumentService service.
func NewDocumentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DocumentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &documentServiceClient{
		getDocument: connect.NewClient[GetDocumentRequest, GetDocumentResponse](
			httpClient, baseURL+DocumentServiceGetDocumentProcedure, opts...,
		),
		putDocument: connect.NewClient[PutDocumentRequest, PutDocumentResponse](
			httpClient, baseURL+DocumentServicePutDocumentProcedure, opts...,
		),
	}
}

type documentServiceClient struct {
	getDocument *connect.Client[GetDocumentRequest, GetDocumentResponse]
	putDocument *connect.Client[PutDocumentRequest, PutDocumentResponse]
}

func (c *documentServiceClient) GetDocument(ctx context.Context, req *connect.Request[GetDocumentRequest]) (*connect.Response[GetDocumentResponse], error) {
	return c.getDocument.CallUnary(ctx, req)
}

func (c *documentServiceClient) PutDocument(ctx context.Context, req *connect.Request[PutDocumentRequest]) (*connect.Response[PutDocumentResponse], error) {
	return c.putDocument.CallUnary(ctx, req)
}

// DocumentServiceHandler is an implementation of the hisab.v1.DocumentService
// service.
type DocumentServiceHandler interface {
	GetDocument(context.Context, *connect.Request[GetDocumentRequest]) (*connect.Response[GetDocumentResponse], error)
	PutDocument(context.Context, *connect.Request[PutDocumentRequest]) (*connect.Response[PutDocumentResponse], error)
}

// NewDocumentServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewDocumentServiceHandler(svc DocumentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	getDocument := connect.NewUnaryHandler(DocumentServiceGetDocumentProcedure, svc.GetDocument, opts...)
	putDocument := connect.NewUnaryHandler(DocumentServicePutDocumentProcedure, svc.PutDocument, opts...)
	return "/" + DocumentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DocumentServiceGetDocumentProcedure:
			getDocument.ServeHTTP(w, r)
		case DocumentServicePutDocumentProcedure:
			putDocument.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
