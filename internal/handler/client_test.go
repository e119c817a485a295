package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clientauth/clientauth/internal/apperr"
	"github.com/clientauth/clientauth/internal/auth"
	"github.com/clientauth/clientauth/internal/handler/dto"
	"github.com/clientauth/clientauth/internal/model"
)

type fakeClients struct {
	client    *model.SafeClient
	err       error
	gotID     string
	gotCreate model.NewClientInput
	gotUpdate model.UpdateClientInput
}

func (f *fakeClients) GetByID(_ context.Context, id string) (*model.SafeClient, error) {
	f.gotID = id
	return f.client, f.err
}

func (f *fakeClients) Create(_ context.Context, in model.NewClientInput) (*model.SafeClient, error) {
	f.gotCreate = in
	return f.client, f.err
}

func (f *fakeClients) UpdateByID(_ context.Context, id string, in model.UpdateClientInput) (*model.SafeClient, error) {
	f.gotID = id
	f.gotUpdate = in
	return f.client, f.err
}

type fakeAuth struct {
	token    string
	err      error
	email    string
	password string
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, error) {
	f.email, f.password = email, password
	return f.token, f.err
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	if buf == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func withClient(r *http.Request, id string) *http.Request {
	return r.WithContext(auth.ContextWithClient(r.Context(), &model.SafeClient{ID: id}))
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Message
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d", status, rec.Code)
	}
	if got := decodeMessage(t, rec); got != msg {
		t.Errorf("expected message %q, got %q", msg, got)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	svc := &fakeAuth{token: "signed.token.value"}
	h := NewAuthHandler(svc, testLogger(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(`{"email":"a@b.com","password":"secret12"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if resp.Token != "signed.token.value" {
		t.Errorf("expected token signed.token.value, got %q", resp.Token)
	}
	if svc.email != "a@b.com" || svc.password != "secret12" {
		t.Errorf("credentials not passed through: %q / %q", svc.email, svc.password)
	}
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"malformed json", `{"email":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"empty body", ``, nil, http.StatusBadRequest, "Invalid request body"},
		{"bad credentials", `{"email":"a@b.com","password":"wrongpass"}`, apperr.Unauthorized(errors.New("mismatch")), http.StatusUnauthorized, "Unauthorized"},
		{"validation", `{"email":"a@b.com","password":"1"}`, apperr.Validation([]apperr.Failure{{Field: "password", Message: "password too short"}}), http.StatusBadRequest, "password too short"},
		{"missing secret", `{"email":"a@b.com","password":"secret12"}`, apperr.Config(auth.ErrMissingSecret), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewAuthHandler(&fakeAuth{err: tt.err}, testLogger(nil))

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(tt.body)))

			expectError(t, rec, tt.wantStatus, tt.wantMsg)
		})
	}
}

func TestClientHandler_Create(t *testing.T) {
	t.Parallel()

	created := &model.SafeClient{ID: "01HZ", Email: "a@b.com"}
	svc := &fakeClients{client: created}
	var logs bytes.Buffer
	h := NewClientHandler(svc, testLogger(&logs))

	body := `{"email":"a@b.com","password":"secret12","isAdmin":true,"id":"forged"}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if want := (model.NewClientInput{Email: "a@b.com", Password: "secret12"}); svc.gotCreate != want {
		t.Errorf("service got %+v, want %+v", svc.gotCreate, want)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] != "01HZ" {
		t.Errorf("expected id 01HZ, got %v", resp["id"])
	}
	for _, hidden := range []string{"password", "firstName"} {
		if _, ok := resp[hidden]; ok {
			t.Errorf("expected %s to be omitted from %v", hidden, resp)
		}
	}
	if !strings.Contains(logs.String(), `"client_created"`) {
		t.Errorf("expected client_created log, got %s", logs.String())
	}
	if strings.Contains(logs.String(), "secret12") {
		t.Error("password leaked into logs")
	}
}

func TestClientHandler_CreateDuplicate(t *testing.T) {
	t.Parallel()

	h := NewClientHandler(&fakeClients{err: apperr.Duplicate(errors.New("23505"))}, testLogger(nil))

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"email":"a@b.com","password":"secret12"}`)))

	expectError(t, rec, http.StatusBadRequest, "Email already exists")
}

func TestClientHandler_InternalErrorIsLoggedNotSent(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	h := NewClientHandler(&fakeClients{err: errors.New("pq: connection reset by peer")}, testLogger(&logs))

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"email":"a@b.com","password":"secret12"}`)))

	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Errorf("internal detail leaked to client: %s", rec.Body.String())
	}
	expectError(t, rec, http.StatusInternalServerError, "Internal server error")
	if !strings.Contains(logs.String(), "internal_error") || !strings.Contains(logs.String(), "connection reset") {
		t.Errorf("expected internal_error log with cause, got %s", logs.String())
	}
}

func TestClientHandler_GetMe(t *testing.T) {
	t.Parallel()

	first := "Ada"
	svc := &fakeClients{client: &model.SafeClient{ID: "01HZ", Email: "a@b.com", FirstName: &first}}
	h := NewClientHandler(svc, testLogger(nil))

	rec := httptest.NewRecorder()
	h.GetMe(rec, withClient(httptest.NewRequest(http.MethodGet, "/api/v1/clients/me", nil), "01HZ"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotID != "01HZ" {
		t.Errorf("expected lookup by 01HZ, got %q", svc.gotID)
	}

	var resp model.SafeClient
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "a@b.com" {
		t.Errorf("expected email a@b.com, got %q", resp.Email)
	}
	if resp.FirstName == nil || *resp.FirstName != "Ada" {
		t.Errorf("expected firstName Ada, got %v", resp.FirstName)
	}
}

func TestClientHandler_GetMeUnauthorized(t *testing.T) {
	t.Parallel()

	t.Run("no client in context", func(t *testing.T) {
		t.Parallel()
		h := NewClientHandler(&fakeClients{}, testLogger(nil))
		rec := httptest.NewRecorder()
		h.GetMe(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients/me", nil))
		expectError(t, rec, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("client deleted since token was issued", func(t *testing.T) {
		t.Parallel()
		h := NewClientHandler(&fakeClients{}, testLogger(nil))
		rec := httptest.NewRecorder()
		h.GetMe(rec, withClient(httptest.NewRequest(http.MethodGet, "/api/v1/clients/me", nil), "gone"))
		expectError(t, rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func TestClientHandler_UpdateMe(t *testing.T) {
	t.Parallel()

	updated := "Updated"
	svc := &fakeClients{client: &model.SafeClient{ID: "01HZ", Email: "a@b.com", FirstName: &updated}}
	h := NewClientHandler(svc, testLogger(nil))

	body := `{"firstName":"Updated","password":"newpassword","id":"other"}`
	rec := httptest.NewRecorder()
	h.UpdateMe(rec, withClient(httptest.NewRequest(http.MethodPut, "/api/v1/clients/me", strings.NewReader(body)), "01HZ"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotID != "01HZ" {
		t.Errorf("expected update of 01HZ, got %q", svc.gotID)
	}
	if svc.gotUpdate.FirstName == nil || *svc.gotUpdate.FirstName != "Updated" {
		t.Errorf("expected firstName Updated, got %v", svc.gotUpdate.FirstName)
	}
	if svc.gotUpdate.Email != nil || svc.gotUpdate.LastName != nil {
		t.Errorf("unexpected fields in update: %+v", svc.gotUpdate)
	}
}

func TestClientHandler_UpdateMeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"malformed json", `not json`, nil, http.StatusBadRequest, "Invalid request body"},
		{"validation", `{"firstName":"U"}`, apperr.Validation([]apperr.Failure{{Field: "firstName", Message: "firstName too short"}}), http.StatusBadRequest, "firstName too short"},
		{"email taken", `{"email":"taken@b.com"}`, apperr.Duplicate(errors.New("23505")), http.StatusBadRequest, "Email already exists"},
		{"client missing", `{"firstName":"Updated"}`, apperr.NotFound(errors.New("no rows")), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewClientHandler(&fakeClients{err: tt.err}, testLogger(nil))
			rec := httptest.NewRecorder()
			h.UpdateMe(rec, withClient(httptest.NewRequest(http.MethodPut, "/api/v1/clients/me", strings.NewReader(tt.body)), "01HZ"))

			expectError(t, rec, tt.wantStatus, tt.wantMsg)
		})
	}
}
