package httphandler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// Login exchanges a username and password for a session token. Every
// authentication failure produces the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	session, err := h.sessions.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Success:   true,
		Token:     session.Token,
		Username:  session.Username,
		Role:      string(session.Role),
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Verify describes the caller's session. Validation has already extended it.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, VerifyResponse{
		Valid:     true,
		Username:  session.Username,
		Role:      string(session.Role),
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout revokes the caller's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	removed, err := h.sessions.Logout(r.Context(), sessionFrom(r.Context()).Token)
	if err != nil {
		h.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: removed})
}

// ChangePassword rotates the caller's own password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "old_password and new_password are required")
		return
	}

	username := sessionFrom(r.Context()).Username
	err := h.creds.ChangePassword(r.Context(), username, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	case errors.Is(err, application.ErrBadPassword), errors.Is(err, application.ErrUserNotFound):
		writeError(w, http.StatusForbidden, "invalid credentials")
	case errors.Is(err, application.ErrInvalidUser):
		writeError(w, http.StatusBadRequest, "invalid password")
	default:
		h.logger.Error("change password failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// CreateUser adds a panel account. Admin only.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = model.RoleUser
	}

	err := h.creds.AddUser(r.Context(), req.Username, req.Password, role)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrDuplicateUser):
		writeError(w, http.StatusConflict, "user already exists")
		return
	case errors.Is(err, application.ErrInvalidUser):
		writeError(w, http.StatusBadRequest, "username, password and a valid role are required")
		return
	default:
		h.logger.Error("create user failed", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, _ := h.creds.Lookup(req.Username)
	h.logger.Info("account created by admin", "username", user.Username, "admin", sessionFrom(r.Context()).Username)
	writeJSON(w, http.StatusCreated, UserResponse{
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	})
}
