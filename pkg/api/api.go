// Package api defines the hisab.v1 RPC surface: message types, procedure
// names, handler constructors and clients. Messages are plain Go structs
// carried over Connect with a JSON codec.
package api

import "github.com/mmynk/hisab/internal/models"

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "hisab.v1.AuthService"
	// DocumentServiceName is the fully-qualified name of the DocumentService service.
	DocumentServiceName = "hisab.v1.DocumentService"
)

// Procedure names, formatted as "/<service>/<method>".
const (
	AuthServiceRegisterProcedure          = "/hisab.v1.AuthService/Register"
	AuthServiceLoginProcedure             = "/hisab.v1.AuthService/Login"
	AuthServiceSignInAnonymouslyProcedure = "/hisab.v1.AuthService/SignInAnonymously"
	AuthServiceGetCurrentUserProcedure    = "/hisab.v1.AuthService/GetCurrentUser"

	DocumentServiceGetDocumentProcedure = "/hisab.v1.DocumentService/GetDocument"
	DocumentServicePutDocumentProcedure = "/hisab.v1.DocumentService/PutDocument"
)

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Anonymous   bool   `json:"anonymous,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type SignInAnonymouslyRequest struct{}

type SignInAnonymouslyResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// GetDocumentRequest addresses the document users/{UserID}.
type GetDocumentRequest struct {
	UserID string `json:"userId"`
}

type GetDocumentResponse struct {
	Document *models.Snapshot `json:"document"`
}

// PutDocumentRequest replaces every field of users/{UserID} with Document.
type PutDocumentRequest struct {
	UserID   string          `json:"userId"`
	Document models.Snapshot `json:"document"`
}

type PutDocumentResponse struct {
	LastUpdated string `json:"lastUpdated"`
}
