package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/castify/internal/auth"
	platformauth "github.com/example/castify/internal/platform/auth"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

func newAuthService() *auth.Service {
	return &auth.Service{
		Store: auth.NewMemoryStore(),
		Tokens: auth.Tokens{
			Secret:          []byte("test-secret"),
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
}

func jsonReq(method, url string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asAuthUser injects user id into the request context.
func asAuthUser(req *http.Request, uid string) *http.Request {
	return req.WithContext(platformauth.WithUserID(req.Context(), uid))
}

// ─── register / login ────────────────────────────────────────────────────────

func TestRegister_OK(t *testing.T) {
	svc := newAuthService()

	req := jsonReq(http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "ada@example.com", "username": "ada", "password": "correct-horse",
	})
	rr := httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var pair auth.TokenPair
	if err := json.NewDecoder(rr.Body).Decode(&pair); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pair.AccessToken == "" || pair.User.Username != "ada" {
		t.Fatalf("unexpected response: %+v", pair)
	}
}

func TestRegister_ValidationError(t *testing.T) {
	req := jsonReq(http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "nope", "username": "ada", "password": "correct-horse",
	})
	rr := httptest.NewRecorder()
	Register(newAuthService(), nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := newAuthService()
	body := map[string]string{"email": "ada@example.com", "username": "ada", "password": "correct-horse"}

	rr := httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/register", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/register", body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService()
	rr := httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "ada@example.com", "username": "ada", "password": "correct-horse",
	}))

	rr = httptest.NewRecorder()
	Login(svc, nil).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/login", map[string]string{
		"login": "ada", "password": "wrong",
	}))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte("{nope")))
	rr := httptest.NewRecorder()
	Login(newAuthService(), nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// ─── refresh / logout / me ───────────────────────────────────────────────────

func TestRefresh_RotatesAndInvalidates(t *testing.T) {
	svc := newAuthService()
	rr := httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "ada@example.com", "username": "ada", "password": "correct-horse",
	}))
	var pair auth.TokenPair
	_ = json.NewDecoder(rr.Body).Decode(&pair)

	rr = httptest.NewRecorder()
	Refresh(svc).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}))
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// the old token is now revoked
	rr = httptest.NewRecorder()
	Refresh(svc).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for rotated token, got %d", rr.Code)
	}
}

func TestMe_OK(t *testing.T) {
	svc := newAuthService()
	rr := httptest.NewRecorder()
	Register(svc, nil).ServeHTTP(rr, jsonReq(http.MethodPost, "/v1/auth/register", map[string]string{
		"email": "ada@example.com", "username": "ada", "password": "correct-horse",
	}))
	var pair auth.TokenPair
	_ = json.NewDecoder(rr.Body).Decode(&pair)

	req := asAuthUser(httptest.NewRequest(http.MethodGet, "/v1/me", nil), pair.User.ID)
	rr = httptest.NewRecorder()
	Me(svc).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var u auth.User
	_ = json.NewDecoder(rr.Body).Decode(&u)
	if u.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	rr := httptest.NewRecorder()
	Me(newAuthService()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
