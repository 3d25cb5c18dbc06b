// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLoginProtection(maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestNewLoginProtection_AppliesDefaults(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	if lp.maxFailedAttempts != 5 || lp.lockoutDuration != 15*time.Minute || lp.attemptWindow != 15*time.Minute {
		t.Errorf("defaults not applied: %+v", lp)
	}
}

func TestLoginProtection_LocksAfterMaxAttempts(t *testing.T) {
	lp, _ := testLoginProtection(3, time.Minute, time.Hour)

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt("Admin@Example.com"); locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}
	if got := lp.RemainingAttempts("admin@example.com"); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt("admin@example.com")
	if !locked || d != time.Minute {
		t.Fatalf("third attempt: locked=%v duration=%v", locked, d)
	}
	if locked, _ := lp.IsAccountLocked(" ADMIN@example.com "); !locked {
		t.Error("account should be locked regardless of email case")
	}
}

func TestLoginProtection_LockoutExpiresAndDoubles(t *testing.T) {
	lp, now := testLoginProtection(2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("a@b.c")
	lp.RecordFailedAttempt("a@b.c")

	*now = now.Add(61 * time.Second)
	if locked, _ := lp.IsAccountLocked("a@b.c"); locked {
		t.Fatal("lockout should have expired")
	}

	lp.RecordFailedAttempt("a@b.c")
	locked, d := lp.RecordFailedAttempt("a@b.c")
	if !locked || d != 2*time.Minute {
		t.Errorf("second lockout: locked=%v duration=%v, want 2m", locked, d)
	}
}

func TestLoginProtection_WindowResetsCount(t *testing.T) {
	lp, now := testLoginProtection(3, time.Minute, 10*time.Minute)

	lp.RecordFailedAttempt("a@b.c")
	lp.RecordFailedAttempt("a@b.c")
	*now = now.Add(11 * time.Minute)

	if locked, _ := lp.RecordFailedAttempt("a@b.c"); locked {
		t.Error("attempts outside the window should not count")
	}
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp, _ := testLoginProtection(3, time.Minute, time.Hour)
	lp.RecordFailedAttempt("a@b.c")
	lp.RecordSuccessfulLogin("a@b.c")

	if got := lp.RemainingAttempts("a@b.c"); got != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", got)
	}
}

func TestLoginProtection_MiddlewareLimitsPostByIP(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method, remote string) int {
		req := httptest.NewRequest(method, "/admin/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if do(http.MethodPost, "10.0.0.1:1000") != http.StatusOK || do(http.MethodPost, "10.0.0.1:1001") != http.StatusOK {
		t.Fatal("burst should be allowed")
	}
	if code := do(http.MethodPost, "10.0.0.1:1002"); code != http.StatusTooManyRequests {
		t.Errorf("third POST = %d, want 429", code)
	}
	if code := do(http.MethodGet, "10.0.0.1:1003"); code != http.StatusOK {
		t.Errorf("GET = %d, want 200", code)
	}
	if code := do(http.MethodPost, "10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("other IP = %d, want 200", code)
	}
}
