// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"oikos/internal/middleware"
	"oikos/internal/session"
	"oikos/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "OIKOS"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// Login validates credentials and opens a session. Two-factor
// verification is still pending afterwards; the response tells the
// client whether the account needs 2FA setup or only a code.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		respondInternal(w, "login lookup failed", err)
		return
	}

	// A missing user and a wrong password get the same answer.
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusForbidden, "This account has been deactivated.")
		return
	}

	// TwoFADone starts false; the client must complete 2FA next.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		TwoFADone: false,
	})
	if err != nil {
		respondInternal(w, "session create failed", err)
		return
	}

	respondMessage(w, http.StatusOK, "Signed in. Two-factor verification required.", map[string]any{
		"user":               user,
		"requires_2fa_setup": user.Needs2FASetup(),
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	respondMessage(w, http.StatusOK, "Signed out.", nil)
}

// Me returns the authenticated user's profile.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		respondInternal(w, "user lookup failed", err)
		return
	}
	if user == nil {
		respondNotFound(w, "User")
		return
	}
	respondData(w, http.StatusOK, user)
}

// TwoFASetup generates a TOTP secret for the session user and returns
// it with a QR code (base64 PNG) for authenticator enrollment.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		respondInternal(w, "totp generate failed", err)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		respondInternal(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondInternal(w, "qr code generation failed", err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify validates a TOTP code and completes authentication. On a
// first-time setup the code also enables 2FA for the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		respondInternal(w, "user lookup for 2fa failed", err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		respondError(w, http.StatusConflict, "Two-factor authentication is not set up.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	// First successful verification enables 2FA for the account.
	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			respondInternal(w, "enable totp failed", err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		respondInternal(w, "session update failed", err)
		return
	}

	if err := a.userStore.TouchLogin(user.ID); err != nil {
		slog.Warn("touch last login failed", "error", err, "user_id", user.ID)
	}

	respondMessage(w, http.StatusOK, "Two-factor verification complete.", map[string]any{
		"user": user,
	})
}
