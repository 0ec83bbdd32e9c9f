// Package login authenticates staff accounts against their stored
// bcrypt hashes and establishes the session cookie.
package login

import (
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/careconnect/careconnect/internal/app/store/users"
	"github.com/careconnect/careconnect/internal/app/system/apierr"
	"github.com/careconnect/careconnect/internal/app/system/auth"
	"github.com/careconnect/careconnect/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.Manager
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sm *auth.Manager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, SessionMgr: sm, Log: logger}
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /login. Unknown email and wrong password
// return the same message so the endpoint does not leak which accounts
// exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apierr.Write(w, apierr.KindValidation, "Request body is not valid JSON.")
		return
	}
	if form.Email == "" || form.Password == "" {
		apierr.Write(w, apierr.KindValidation, "Email and password are required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.writeBadCredentials(w)
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	if !userstore.VerifyPassword(user, form.Password) {
		h.Log.Info("login rejected: wrong password", zap.String("email", user.Email))
		h.writeBadCredentials(w)
		return
	}
	if user.Status != "active" {
		h.Log.Info("login rejected: account disabled", zap.String("email", user.Email))
		apierr.Write(w, apierr.KindState, "This account is disabled.")
		return
	}

	sessionUser := &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, sessionUser); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	h.Log.Info("login ok",
		zap.String("user_id", sessionUser.ID),
		zap.String("role", sessionUser.Role))
	apierr.JSON(w, http.StatusOK, map[string]string{
		"name": user.FullName,
		"role": user.Role,
	})
}

func (h *Handler) writeBadCredentials(w http.ResponseWriter) {
	apierr.Write(w, apierr.KindValidation, "Email or password is incorrect.")
}
