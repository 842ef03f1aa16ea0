// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// userStore is the slice of store.UserStore the auth handlers need.
type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, id uuid.UUID) error
}

// Auth groups registration, login, and two-factor enrollment handlers.
type Auth struct {
	users         userStore
	tokens        *auth.Tokens
	issuer        string
	secureCookies bool
}

// NewAuth creates the auth handler group. issuer names the service in
// otpauth URLs shown by authenticator apps.
func NewAuth(users userStore, tokens *auth.Tokens, issuer string, secureCookies bool) *Auth {
	return &Auth{users: users, tokens: tokens, issuer: issuer, secureCookies: secureCookies}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /api/auth/register. New accounts start as readers.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if msg := validateRegistration(req.Email, req.Password, req.DisplayName); msg != "" {
		Error(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := h.users.Create(r.Context(), &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         models.RoleReader,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			Error(w, http.StatusConflict, "email already registered")
			return
		}
		respondError(w, err)
		return
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("issue token", "user", user.ID, "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setTokenCookie(w, signed)
	JSON(w, http.StatusCreated, sessionResponse{User: user, Token: signed})
}

// Login handles POST /api/auth/login. When the account has 2FA enabled the
// TOTP code is part of the credentials; a missing or wrong code is the same
// 401 as a wrong password.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(req.TOTPCode, *user.TOTPSecret) {
			Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("issue token", "user", user.ID, "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setTokenCookie(w, signed)
	JSON(w, http.StatusOK, sessionResponse{User: user, Token: signed})
}

// Logout handles POST /api/auth/logout by expiring the token cookie. The
// JWT itself stays valid until its expiry; clients must drop it.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// TOTPSetup handles POST /api/auth/2fa/setup. It generates and stores a
// pending secret; 2FA only takes effect after a verified enable call.
func (h *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      h.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("generate totp key", "user", user.ID, "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		respondError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
		"qrUrl":      "/api/auth/2fa/qr",
	})
}

// TOTPQR handles GET /api/auth/2fa/qr, rendering the pending enrollment as
// a scannable PNG.
func (h *Auth) TOTPQR(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if user.TOTPSecret == nil {
		Error(w, http.StatusNotFound, "no two-factor enrollment in progress")
		return
	}

	otpauth := fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.PathEscape(h.issuer), url.PathEscape(user.Email),
		*user.TOTPSecret, url.QueryEscape(h.issuer))

	png, err := qrcode.Encode(otpauth, qrcode.Medium, 256)
	if err != nil {
		slog.Error("encode totp qr", "user", user.ID, "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Error("write totp qr", "user", user.ID, "error", err)
	}
}

type totpEnableRequest struct {
	Code string `json:"code"`
}

// TOTPEnable handles POST /api/auth/2fa/enable. The code proves the
// authenticator app holds the pending secret before 2FA turns on.
func (h *Auth) TOTPEnable(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if user.TOTPSecret == nil {
		Error(w, http.StatusBadRequest, "two-factor setup has not been started")
		return
	}

	var req totpEnableRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if !totp.Validate(req.Code, *user.TOTPSecret) {
		Error(w, http.StatusBadRequest, "invalid verification code")
		return
	}

	if err := h.users.EnableTOTP(r.Context(), user.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// currentUser loads the authenticated actor's user record, writing the
// error response on failure.
func (h *Auth) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	user, err := h.users.FindByID(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	if user == nil {
		Error(w, http.StatusUnauthorized, "account no longer exists")
		return nil, false
	}
	return user, true
}

func (h *Auth) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
