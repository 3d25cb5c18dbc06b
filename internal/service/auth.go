// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/folio-go/internal/auth"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
)

// LoginContext describes where a sign-in attempt came from.
type LoginContext struct {
	IP        string
	Browser   string
	OS        string
	Country   string
	UserAgent string
}

func (lc LoginContext) String() string {
	var b strings.Builder
	b.WriteString("from ")
	if lc.IP != "" {
		b.WriteString(lc.IP)
	} else {
		b.WriteString("unknown address")
	}
	if lc.Country != "" {
		b.WriteString(" (" + lc.Country + ")")
	}
	if lc.Browser != "" {
		b.WriteString(" using " + lc.Browser)
		if lc.OS != "" {
			b.WriteString(" on " + lc.OS)
		}
	}
	return b.String()
}

// ResetNotifier delivers a password reset link to the account owner.
type ResetNotifier interface {
	SendReset(ctx context.Context, email, link string) error
}

// LogResetNotifier writes reset links to the application log at INFO. It
// is the delivery channel for single-operator installs without mail.
type LogResetNotifier struct {
	Logger *slog.Logger
}

// SendReset logs the link.
func (n LogResetNotifier) SendReset(_ context.Context, email, link string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("password reset requested", "email", email, "link", link)
	return nil
}

// AuthService verifies admin credentials and runs the password recovery
// flow. Failed and successful attempts are written to the security log.
type AuthService struct {
	db       *sql.DB
	queries  *store.Queries
	events   *EventService
	notifier ResetNotifier
	baseURL  string
	now      func() time.Time
}

// NewAuthService creates an AuthService. baseURL prefixes reset links.
func NewAuthService(db *sql.DB, events *EventService, notifier ResetNotifier, baseURL string) *AuthService {
	if notifier == nil {
		notifier = LogResetNotifier{}
	}
	return &AuthService{
		db:       db,
		queries:  store.New(db),
		events:   events,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck spends the same time as a real check so unknown
// accounts are not distinguishable by latency.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("folio-timing-equalizer")
	})
	if dummyHash != "" {
		_, _ = auth.CheckPassword(password, dummyHash)
	}
}

// Login checks email and password. It returns ErrInvalidCredentials for
// an unknown account or a wrong password. The caller records ADMIN_LOGIN
// once the session is established.
func (s *AuthService) Login(ctx context.Context, email, password string, lc LoginContext) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return store.User{}, fmt.Errorf("loading user: %w", err)
		}
		burnPasswordCheck(password)
		s.events.Warning(ctx, model.EventLoginFailed, fmt.Sprintf("Failed login for %q %s.", email, lc))
		return store.User{}, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return store.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		s.events.Warning(ctx, model.EventLoginFailed, fmt.Sprintf("Failed login for %q %s.", email, lc))
		return store.User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		slog.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = sql.NullTime{Time: now, Valid: true}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password, now)
	}

	return user, nil
}

// rehash upgrades a stored hash to the current argon2 parameters. Failure
// keeps the old hash, which still verifies.
func (s *AuthService) rehash(ctx context.Context, userID int64, password string, now time.Time) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Warn("failed to rehash password", "user_id", userID, "error", err)
		return
	}
	if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    now,
		ID:           userID,
	}); err != nil {
		slog.Warn("failed to store rehashed password", "user_id", userID, "error", err)
	}
}

// RequestReset issues a reset token when email belongs to an account and
// hands the link to the notifier. Unknown emails are not reported to the
// caller.
func (s *AuthService) RequestReset(ctx context.Context, email, ip string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.events.Warning(ctx, model.EventPasswordResetRequested,
				fmt.Sprintf("Password reset requested for unknown account %q from %s.", email, ip))
			return nil
		}
		return fmt.Errorf("loading user: %w", err)
	}

	token, hash := auth.NewResetToken()
	now := s.now().UTC()
	if err := s.queries.DeleteUserPasswordResetTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("clearing reset tokens: %w", err)
	}
	if err := s.queries.CreatePasswordResetToken(ctx, store.CreatePasswordResetTokenParams{
		TokenHash: hash,
		UserID:    user.ID,
		ExpiresAt: now.Add(auth.ResetTokenTTL),
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("creating reset token: %w", err)
	}

	s.events.Warning(ctx, model.EventPasswordResetRequested,
		fmt.Sprintf("Password reset requested for %q from %s.", user.Email, ip))

	link := s.baseURL + "/admin/reset-password?" + url.Values{"token": {token}}.Encode()
	if err := s.notifier.SendReset(ctx, user.Email, link); err != nil {
		return fmt.Errorf("sending reset link: %w", err)
	}
	return nil
}

// ResetPassword consumes token and sets a new password. All outstanding
// tokens of the account are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < auth.MinPasswordLength {
		return ErrWeakPassword
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}

	hash := auth.HashResetToken(token)
	rt, err := s.queries.GetPasswordResetToken(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidToken
		}
		return fmt.Errorf("loading reset token: %w", err)
	}
	now := s.now().UTC()
	if !now.Before(rt.ExpiresAt) {
		_ = s.queries.DeletePasswordResetToken(ctx, hash)
		return ErrInvalidToken
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	if err := qtx.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: passwordHash,
		UpdatedAt:    now,
		ID:           rt.UserID,
	}); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if err := qtx.DeleteUserPasswordResetTokens(ctx, rt.UserID); err != nil {
		return fmt.Errorf("revoking reset tokens: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing password reset: %w", err)
	}

	s.events.Success(ctx, model.EventPasswordReset, fmt.Sprintf("Password reset completed for user %d.", rt.UserID))
	return nil
}

// PurgeExpiredTokens deletes reset tokens past their expiry.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.queries.DeleteExpiredPasswordResetTokens(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purging reset tokens: %w", err)
	}
	return n, nil
}
