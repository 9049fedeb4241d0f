package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/narrate/narrate/internal/api/respond"
	"github.com/narrate/narrate/internal/api/validate"
	"github.com/narrate/narrate/internal/auth"
	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/services"
)

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

type AuthHandler struct {
	users  *services.UserService
	issuer TokenIssuer
}

func NewAuthHandler(users *services.UserService, issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID      string  `json:"userId"`
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		DisplayName *string `json:"displayName,omitempty"`
		TimeZone    string  `json:"timeZone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Register(in.UserID, in.Email, in.Password, in.DisplayName); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	u, err := h.users.Register(r.Context(), in.UserID, in.Email, in.Password, in.TimeZone, in.DisplayName)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			respond.WriteError(w, http.StatusConflict, "userId or email already in use")
			return
		}
		respond.WriteInternalError(w, "failed to create user")
		return
	}

	token, err := h.issuer.IssueToken(u.UserID)
	if err != nil {
		respond.WriteInternalError(w, "failed to issue token")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  u,
		"token": token,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Login(in.Email, in.Password); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	u, err := h.users.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			respond.WriteUnauthorized(w, "invalid credentials")
			return
		}
		respond.WriteInternalError(w, "failed to authenticate")
		return
	}

	token, err := h.issuer.IssueToken(u.UserID)
	if err != nil {
		respond.WriteInternalError(w, "failed to issue token")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":  u,
		"token": token,
	})
}
