package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	accountservice "carbono/contexts/account-core/account-service"
	projectservice "carbono/contexts/account-core/project-service"
	projectports "carbono/contexts/account-core/project-service/ports"
)

type testDirectory struct {
	accounts accountservice.Module
}

func (d testDirectory) ResolveProfileByEmail(ctx context.Context, email string) (projectports.ProfileRef, bool, error) {
	profile, found, err := d.accounts.Service.FindProfileByEmail(ctx, email)
	if err != nil || !found {
		return projectports.ProfileRef{}, found, err
	}
	return projectports.ProfileRef{ID: profile.ID, Code: profile.Code, Name: profile.Name}, true, nil
}

func newTestServer() *Server {
	accounts := accountservice.NewInMemoryModule(nil)
	projects := projectservice.NewInMemoryModule(testDirectory{accounts: accounts}, nil)
	return New(accounts, projects, nil, ":0", false)
}

func doJSON(t *testing.T, server *Server, method string, path string, email string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if email != "" {
		req.Header.Set("X-User-Email", email)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServerRegisterAndFetchProfile(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server, http.MethodPost, "/account-manager/profiles", "", map[string]string{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "engine",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var registered struct {
		Data struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	rec = doJSON(t, server, http.MethodGet, "/account-manager/profiles/"+registered.Data.Code, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServerRegisterConflictIsBadRequestWithTable(t *testing.T) {
	server := newTestServer()

	payload := map[string]string{
		"name":     "Dup",
		"email":    "dup@example.com",
		"password": "pw",
	}
	if rec := doJSON(t, server, http.MethodPost, "/account-manager/profiles", "", payload); rec.Code != http.StatusCreated {
		t.Fatalf("first register expected 201, got %d", rec.Code)
	}

	rec := doJSON(t, server, http.MethodPost, "/account-manager/profiles", "", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate email, got %d", rec.Code)
	}
	var body struct {
		Table string `json:"table"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Table != "user" {
		t.Fatalf("expected user table in error envelope, got %q", body.Table)
	}
}

func TestServerProjectRoutesRequireActingUser(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server, http.MethodPost, "/account-manager/projects", "", map[string]string{"name": "X"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-User-Email, got %d", rec.Code)
	}
}

func TestServerProjectLifecycle(t *testing.T) {
	server := newTestServer()

	for _, email := range []string{"owner@example.com", "reader@example.com"} {
		rec := doJSON(t, server, http.MethodPost, "/account-manager/profiles", "", map[string]string{
			"name":     email,
			"email":    email,
			"password": "pw",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s expected 201, got %d", email, rec.Code)
		}
	}

	rec := doJSON(t, server, http.MethodPost, "/account-manager/projects", "owner@example.com", map[string]string{
		"name":        "Lifecycle",
		"description": "end to end",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	rec = doJSON(t, server, http.MethodPost, "/account-manager/projects/"+created.Data.Code+"/access", "owner@example.com", map[string]string{
		"email":        "reader@example.com",
		"access_level": "read",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("grant expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, "/account-manager/projects/"+created.Data.Code, "reader@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reader get expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodDelete, "/account-manager/projects/"+created.Data.Code, "reader@example.com", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("reader delete expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodDelete, "/account-manager/projects/"+created.Data.Code, "owner@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodGet, "/account-manager/projects/"+created.Data.Code, "owner@example.com", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete expected 404, got %d", rec.Code)
	}
}

func TestServerSwaggerRouteGatedByFlag(t *testing.T) {
	accounts := accountservice.NewInMemoryModule(nil)
	projects := projectservice.NewInMemoryModule(testDirectory{accounts: accounts}, nil)

	disabled := New(accounts, projects, nil, ":0", false)
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	rec := httptest.NewRecorder()
	disabled.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with swagger disabled, got %d", rec.Code)
	}

	enabled := New(accounts, projects, nil, ":0", true)
	req = httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	rec = httptest.NewRecorder()
	enabled.Handler().ServeHTTP(rec, req)
	if rec.Code == http.StatusNotFound {
		t.Fatalf("expected swagger route registered when enabled, got 404")
	}
}
