package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fu050409/bronya/internal/common"
	"github.com/fu050409/bronya/internal/server/models"
	"github.com/fu050409/bronya/internal/server/services"
)

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "Invalid request body.", CodeInvalidRequest)
		return false
	}
	return true
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Register
	if !decode(w, r, &reg) {
		return
	}

	ut, err := s.accounts.Register(r.Context(), &reg)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeResponse(w, Response{Message: verr.Error(), Data: verr.Fields, Code: CodeInvalidRequest})
		case errors.Is(err, common.ErrorAlreadyExists):
			writeError(w, "Account already exists.", CodeAlreadyExists)
		default:
			writeError(w, "Failed to create account.", CodeInternalError)
		}
		return
	}

	s.logger.Info(r.Context(), "account registered", "username", ut.Username)
	writeSuccess(w, "Account created successfully.", ut)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var login models.Login
	if !decode(w, r, &login) {
		return
	}

	ut, err := s.accounts.Login(r.Context(), &login)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeResponse(w, Response{Message: verr.Error(), Data: verr.Fields, Code: CodeInvalidRequest})
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, "Account not found.", CodeAlreadyExists)
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, "Invalid password.", CodePermissionDenied)
		default:
			writeError(w, "Failed to create or update session.", CodeInternalError)
		}
		return
	}

	s.logger.Info(r.Context(), "login", "username", ut.Username)
	writeSuccess(w, "Logged in successfully.", ut)
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}

	if err := s.accounts.Logout(r.Context(), creds); err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, "Invalid credentials.", CodePermissionDenied)
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, "Session not found.", CodeAlreadyExists)
		default:
			writeError(w, "Failed to logout.", CodeInternalError)
		}
		return
	}

	writeSuccess(w, "Logged out successfully.", nil)
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}

	if err := s.accounts.Delete(r.Context(), creds); err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, "Invalid credentials.", CodePermissionDenied)
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, "Account not found.", CodeAlreadyExists)
		default:
			writeError(w, "Failed to delete account.", CodeInternalError)
		}
		return
	}

	s.logger.Info(r.Context(), "account deleted", "user_id", creds.UserID)
	writeSuccess(w, "Account deleted successfully.", nil)
}

// UpdateProfileRequest pairs the caller's credentials with the replacement
// profile record.
type UpdateProfileRequest struct {
	Credentials models.Credentials `json:"credentials"`
	Profile     models.Profile     `json:"profile"`
}

func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	profile, err := s.accounts.UpdateProfile(r.Context(), req.Credentials, req.Profile)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, "Invalid credentials.", CodePermissionDenied)
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, "Account not found.", CodeAlreadyExists)
		default:
			writeError(w, "Failed to update profile.", CodeInternalError)
		}
		return
	}

	writeSuccess(w, "Profile updated successfully.", profile)
}

// AvatarUploadURL is the payload returned by the avatar upload endpoint.
type AvatarUploadURL struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

func (s *HTTPServer) handleAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}

	if !s.sessions.IsValid(r.Context(), creds) {
		writeError(w, "Invalid credentials.", CodePermissionDenied)
		return
	}

	key, url, err := s.avatars.PresignUpload(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "avatar presign failed", "error", err.Error())
		writeError(w, "Failed to issue upload URL.", CodeInternalError)
		return
	}

	writeSuccess(w, "Upload URL issued.", AvatarUploadURL{Key: key, UploadURL: url})
}

// AvatarDownloadRequest asks for a download URL for a stored avatar key.
type AvatarDownloadRequest struct {
	Credentials models.Credentials `json:"credentials"`
	Key         string             `json:"key"`
}

// AvatarDownloadURL is the payload returned by the avatar download endpoint.
type AvatarDownloadURL struct {
	DownloadURL string `json:"download_url"`
}

func (s *HTTPServer) handleAvatarDownloadURL(w http.ResponseWriter, r *http.Request) {
	var req AvatarDownloadRequest
	if !decode(w, r, &req) {
		return
	}

	if !s.sessions.IsValid(r.Context(), req.Credentials) {
		writeError(w, "Invalid credentials.", CodePermissionDenied)
		return
	}

	if req.Key == "" {
		writeError(w, "Avatar key must be provided.", CodeInvalidRequest)
		return
	}

	url, err := s.avatars.PresignDownload(r.Context(), req.Key)
	if err != nil {
		s.logger.Error(r.Context(), "avatar presign failed", "error", err.Error())
		writeError(w, "Failed to issue download URL.", CodeInternalError)
		return
	}

	writeSuccess(w, "Download URL issued.", AvatarDownloadURL{DownloadURL: url})
}
