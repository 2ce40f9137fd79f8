package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/chem-is-try/po-generator/pkg/auth"
	"github.com/chem-is-try/po-generator/pkg/config"
)

type stubSessionChecker struct {
	has bool
}

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.has, nil
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "po-generator-test",
		ExpirationMinutes: 5,
	}
	userID := uuid.New()

	mint := func(t *testing.T) string {
		t.Helper()
		token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
			UserID: userID,
			Email:  "maria@example.com",
		})
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}
		return token
	}

	run := func(authorization string, checker stubSessionChecker) (*httptest.ResponseRecorder, string) {
		var seenUserID string
		handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenUserID = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec, seenUserID
	}

	t.Run("missing header", func(t *testing.T) {
		rec, _ := run("", stubSessionChecker{has: true})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := run("Bearer not-a-jwt", stubSessionChecker{has: true})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		rec, _ := run("Bearer "+mint(t), stubSessionChecker{has: false})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 when session revoked, got %d", rec.Code)
		}
	})

	t.Run("valid token seeds user context", func(t *testing.T) {
		rec, seenUserID := run("Bearer "+mint(t), stubSessionChecker{has: true})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected handler to run, got %d", rec.Code)
		}
		if seenUserID != userID.String() {
			t.Fatalf("expected user id %s in context, got %q", userID, seenUserID)
		}
	})
}
