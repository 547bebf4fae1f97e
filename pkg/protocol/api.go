// Package protocol defines the Rock RMS API request/response types used by magnus.
package protocol

import "github.com/bayside-church/magnus-cli/pkg/models"

// LoginRequest is the body for POST /api/Auth/Login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TreeItemsResponse is returned by GET /api/TriumphTech/Magnus/GetTreeItems/{path}.
type TreeItemsResponse []models.RemoteEntry

// SaveContentRequest is the body for POST /api/Files/SaveContent.
type SaveContentRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// ErrorResponse is the error body Rock returns on failed API calls.
type ErrorResponse struct {
	Message       string `json:"Message"`
	MessageDetail string `json:"MessageDetail,omitempty"`
}

// Route fragments of the Rock RMS API.
const (
	LoginPath       = "/api/Auth/Login"
	TreeItemsPath   = "/api/TriumphTech/Magnus/GetTreeItems"
	GetContentPath  = "/api/Files/GetContent"
	SaveContentPath = "/api/Files/SaveContent"

	// SessionCookie is the name of the Rock session cookie set by Login.
	SessionCookie = ".ROCK"
)
