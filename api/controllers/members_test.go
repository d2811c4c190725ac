package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/articles-api/internal/members"
	"github.com/angelmondragon/articles-api/pkg/config"
	"github.com/angelmondragon/articles-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
)

type stubMemberService struct {
	refreshAccess string
	refreshToken  string
	logoutAccess  string
	err           error
}

func (s *stubMemberService) Login(ctx context.Context, req members.LoginRequest) (*members.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &members.LoginResult{
		Member:    members.MemberDTO{ID: 1, Username: req.Username, Role: enums.MemberRoleUser},
		TokenPair: members.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
	}, nil
}

func (s *stubMemberService) Join(ctx context.Context, req members.JoinRequest) (*members.MemberDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &members.MemberDTO{ID: 3, Username: req.Username, Role: enums.MemberRoleUser}, nil
}

func (s *stubMemberService) Me(ctx context.Context, memberID int64) (*members.MemberDTO, error) {
	return &members.MemberDTO{ID: memberID}, nil
}

func (s *stubMemberService) Refresh(ctx context.Context, accessToken, refreshToken string) (*members.TokenPair, error) {
	s.refreshAccess = accessToken
	s.refreshToken = refreshToken
	if s.err != nil {
		return nil, s.err
	}
	return &members.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (s *stubMemberService) Logout(ctx context.Context, accessToken string) error {
	s.logoutAccess = accessToken
	return s.err
}

func TestMemberLoginSetsAuthenticationHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	MemberLogin(&stubMemberService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"user1","password":"1234"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(AuthenticationHeader); got != "access" {
		t.Fatalf("expected access token header, got %q", got)
	}
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	if body["resultCode"] != "S-1" || data["accessToken"] != "access" || data["refreshToken"] != "refresh" {
		t.Fatalf("unexpected envelope %v", body)
	}
	if data["member"].(map[string]any)["username"] != "user1" {
		t.Fatalf("unexpected member %v", data["member"])
	}
}

func TestMemberLoginValidatesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	MemberLogin(&stubMemberService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"user1"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["msg"] != "password is required" {
		t.Fatalf("unexpected envelope %v", body)
	}
}

func TestMemberJoinConflict(t *testing.T) {
	svc := &stubMemberService{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}
	rec := httptest.NewRecorder()
	MemberJoin(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"user1","password":"1234"}`)))

	body := decodeEnvelope(t, rec)
	if rec.Code != http.StatusConflict || body["resultCode"] != "F-5" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
}

func TestMemberRefreshRequiresBearer(t *testing.T) {
	svc := &stubMemberService{}
	rec := httptest.NewRecorder()
	MemberRefresh(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"refreshToken":"r"}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if svc.refreshToken != "" {
		t.Fatal("service should not be called")
	}
}

func TestMemberRefreshRotates(t *testing.T) {
	svc := &stubMemberService{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"refreshToken":"refresh"}`))
	req.Header.Set("Authorization", "Bearer expired-access")
	rec := httptest.NewRecorder()
	MemberRefresh(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.refreshAccess != "expired-access" || svc.refreshToken != "refresh" {
		t.Fatalf("unexpected service input %q %q", svc.refreshAccess, svc.refreshToken)
	}
	if body := decodeEnvelope(t, rec); body["resultCode"] != "S-4" {
		t.Fatalf("unexpected envelope %v", body)
	}
	if rec.Header().Get(AuthenticationHeader) != "access-2" {
		t.Fatalf("expected rotated access token header")
	}
}

func TestMemberLogout(t *testing.T) {
	svc := &stubMemberService{}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	MemberLogout(svc, nil).ServeHTTP(rec, req)

	body := decodeEnvelope(t, rec)
	if rec.Code != http.StatusOK || body["resultCode"] != "S-5" || body["msg"] != "logged out" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	if svc.logoutAccess != "token-1" {
		t.Fatalf("expected token forwarded, got %q", svc.logoutAccess)
	}
}

func TestMemberMeRequiresContext(t *testing.T) {
	rec := httptest.NewRecorder()
	MemberMe(&stubMemberService{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	cfg := testConfig()
	rec := httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"redis": failingPinger{}}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := decodeEnvelope(t, rec)
	if rec.Code != http.StatusServiceUnavailable || body["resultCode"] != "F-8" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("dependency error leaked: %s", rec.Body.String())
	}
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: config.AppEnvTest}}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := decodeEnvelope(t, rec)
	if rec.Code != http.StatusOK || body["resultCode"] != "S-1" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}
	if body["data"].(map[string]any)["env"] != "test" {
		t.Fatalf("unexpected data %v", body["data"])
	}
}
