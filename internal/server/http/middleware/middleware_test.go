package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
	pkgAuth "github.com/caom/ecommerce/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type resolverStub struct {
	principal model.Principal
	err       error
	gotToken  string
}

func (r *resolverStub) ResolvePrincipal(ctx context.Context, token string) (model.Principal, error) {
	r.gotToken = token
	if r.err != nil {
		return model.Principal{}, r.err
	}
	return r.principal, nil
}

func runProtected(t *testing.T, resolver PrincipalResolver, mutate func(*http.Request)) (*httptest.ResponseRecorder, model.Principal) {
	t.Helper()
	var captured model.Principal
	router := gin.New()
	router.GET("/secret", AuthRequired(resolver), func(c *gin.Context) {
		val, _ := c.Get(PrincipalContextKey)
		captured, _ = val.(model.Principal)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, captured
}

func TestAuthRequired_BearerHeader(t *testing.T) {
	resolver := &resolverStub{principal: model.Principal{UserID: 7, Role: model.RoleAdmin}}
	resp, principal := runProtected(t, resolver, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer the-token")
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resolver.gotToken != "the-token" {
		t.Fatalf("unexpected token: %q", resolver.gotToken)
	}
	if principal.UserID != 7 || principal.Role != model.RoleAdmin {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAuthRequired_Cookie(t *testing.T) {
	resolver := &resolverStub{principal: model.Principal{UserID: 3, Role: model.RoleCustomer}}
	resp, principal := runProtected(t, resolver, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "ecommerce_token", Value: "cookie-token"})
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resolver.gotToken != "cookie-token" {
		t.Fatalf("unexpected token: %q", resolver.gotToken)
	}
	if principal.UserID != 3 {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAuthRequired_MissingToken(t *testing.T) {
	resp, _ := runProtected(t, &resolverStub{}, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestAuthRequired_ResolveFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid token", err: pkgAuth.ErrInvalidToken, status: http.StatusUnauthorized},
		{name: "user gone", err: domainErrors.ErrUserNotFound, status: http.StatusUnauthorized},
		{name: "store down", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := runProtected(t, &resolverStub{err: tc.err}, func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer whatever")
			})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestSetAuthCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	SetAuthCookie(c, "the-token")
	if got := w.Header().Get("Authorization"); got != "Bearer the-token" {
		t.Fatalf("unexpected auth header: %q", got)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "ecommerce_token=the-token") {
		t.Fatalf("unexpected cookie header: %q", w.Header().Get("Set-Cookie"))
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var captured string
	router.GET("/", func(c *gin.Context) {
		captured = c.GetString(RequestIDContextKey)
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if captured == "" {
			t.Fatal("expected generated request id")
		}
		if w.Header().Get("X-Request-Id") != captured {
			t.Fatalf("response header mismatch: %q vs %q", w.Header().Get("X-Request-Id"), captured)
		}
	})

	t.Run("honours caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "caller-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if captured != "caller-id" {
			t.Fatalf("unexpected request id: %q", captured)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/ping"`, `"status":200`, `"request_id"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %s: %s", want, out)
		}
	}
}

func TestDecompressRequest(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest())
	var received string
	router.POST("/", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		received = string(data)
		c.Status(http.StatusOK)
	})

	t.Run("gzip body", func(t *testing.T) {
		var compressed bytes.Buffer
		zw := gzip.NewWriter(&compressed)
		if _, err := zw.Write([]byte("payload")); err != nil {
			t.Fatalf("compress: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("close writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/", &compressed)
		req.Header.Set("Content-Encoding", "gzip")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if received != "payload" {
			t.Fatalf("unexpected body: %q", received)
		}
	})

	t.Run("plain body untouched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("plain"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if received != "plain" {
			t.Fatalf("unexpected body: %q", received)
		}
	})

	t.Run("corrupt gzip rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not-gzip"))
		req.Header.Set("Content-Encoding", "gzip")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})
}
