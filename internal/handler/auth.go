// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"github.com/olegiv/folio-go/internal/geoip"
	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
)

// DefaultLoginRedirect is where a successful login lands without a usable
// callbackUrl.
const DefaultLoginRedirect = "/admin/dashboard"

// AuthHandler handles sign-in, sign-out and password recovery.
type AuthHandler struct {
	auth            *service.AuthService
	events          *service.EventService
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	geo             *geoip.Resolver
}

// NewAuthHandler creates a new AuthHandler. geo may be nil.
func NewAuthHandler(authSvc *service.AuthService, events *service.EventService, sm *scs.SessionManager, lp *middleware.LoginProtection, geo *geoip.Resolver) *AuthHandler {
	return &AuthHandler{
		auth:            authSvc,
		events:          events,
		sessionManager:  sm,
		loginProtection: lp,
		geo:             geo,
	}
}

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

type loginResponse struct {
	Redirect string `json:"redirect"`
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeOrBadRequest(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		api.WriteValidationError(w, map[string]string{
			"email":    "Email and password are required",
			"password": "Email and password are required",
		})
		return
	}

	lc := h.loginContext(r)

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		h.events.Warning(r.Context(), model.EventLoginFailed,
			fmt.Sprintf("Login attempt on locked account %q %s.", email, lc))
		writeLocked(w, remaining)
		return
	}

	user, err := h.auth.Login(r.Context(), email, req.Password, lc)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logAndInternalError(w, "login failed", "error", err)
			return
		}
		if locked, lockFor := h.loginProtection.RecordFailedAttempt(email); locked {
			h.events.Danger(r.Context(), model.EventAccountLocked,
				fmt.Sprintf("Account %q locked for %s after repeated failures %s.", email, lockFor.Round(time.Second), lc))
			writeLocked(w, lockFor)
			return
		}
		api.WriteUnauthorized(w, "Invalid email or password")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
	h.events.Success(r.Context(), model.EventAdminLogin,
		fmt.Sprintf("Admin %q signed in %s.", user.Email, lc))

	slog.Info("user logged in", "user_id", user.ID, "ip", lc.IP)
	api.WriteSuccess(w, loginResponse{Redirect: SafeCallbackURL(req.CallbackURL)}, nil)
}

// Logout handles POST /admin/api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if email := middleware.GetUserEmail(r); email != "" {
		h.events.Info(r.Context(), model.EventAdminLogout,
			fmt.Sprintf("Admin %q signed out from %s.", email, middleware.ClientIP(r)))
	}
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	api.WriteNoContent(w)
}

type recoveryRequest struct {
	Email string `json:"email"`
}

// Recovery handles POST /admin/recovery. The response never reveals
// whether the account exists.
func (h *AuthHandler) Recovery(w http.ResponseWriter, r *http.Request) {
	var req recoveryRequest
	if !decodeOrBadRequest(w, r, &req) {
		return
	}
	if err := h.auth.RequestReset(r.Context(), req.Email, middleware.ClientIP(r)); err != nil {
		slog.Error("password reset request failed", "error", err)
	}
	api.WriteSuccess(w, map[string]string{
		"message": "If an account exists for that address, a reset link has been sent.",
	}, nil)
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /admin/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeOrBadRequest(w, r, &req) {
		return
	}
	err := h.auth.ResetPassword(r.Context(), req.Token, req.Password)
	switch {
	case err == nil:
		api.WriteSuccess(w, map[string]string{"message": "Password updated. You can now sign in."}, nil)
	case errors.Is(err, service.ErrWeakPassword):
		api.WriteValidationError(w, map[string]string{"password": err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		api.WriteBadRequest(w, err.Error(), nil)
	default:
		logAndInternalError(w, "password reset failed", "error", err)
	}
}

// loginContext describes the client for security log entries.
func (h *AuthHandler) loginContext(r *http.Request) service.LoginContext {
	ip := middleware.ClientIP(r)
	ua := useragent.Parse(r.UserAgent())
	lc := service.LoginContext{
		IP:        ip,
		Browser:   ua.Name,
		OS:        ua.OS,
		UserAgent: r.UserAgent(),
	}
	if code := h.geo.Country(ip); code != "" {
		lc.Country = geoip.CountryName(code)
	}
	return lc
}

func writeLocked(w http.ResponseWriter, remaining time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(remaining.Seconds()))))
	api.WriteTooManyRequests(w, fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)))
}

// SafeCallbackURL returns callback when it is a local admin path other than
// the login page, and DefaultLoginRedirect otherwise.
func SafeCallbackURL(callback string) string {
	if callback == "" || strings.HasPrefix(callback, "//") || strings.Contains(callback, `\`) {
		return DefaultLoginRedirect
	}
	u, err := url.Parse(callback)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultLoginRedirect
	}
	if u.Path != "/admin" && !strings.HasPrefix(u.Path, "/admin/") {
		return DefaultLoginRedirect
	}
	if u.Path == "/admin/login" || strings.HasPrefix(u.Path, "/admin/login/") {
		return DefaultLoginRedirect
	}
	return u.RequestURI()
}
