package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/api"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-auth-portal/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/view"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/shared/utils"
)

// собираем полный стек: мок-репозитории, сервис, хендлер, middleware сессий
func newTestStack(t *testing.T, paths api.Paths) (*api.Handler, *middleware.SessionManager, *svcmocks.MockUsersRepo, *svcmocks.MockSessionsRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := svcmocks.NewMockUsersRepo(ctrl)
	sessions := svcmocks.NewMockSessionsRepo(ctrl)

	cfg := &config.Config{
		Password: config.PasswordConfig{
			Hasher: "bcrypt",
			Bcrypt: config.BcryptConfig{Cost: 4},
		},
		Sessions: config.SessionsConfig{
			Store:      "db",
			CookieName: "portal_session",
			TTL:        24 * time.Hour,
		},
	}

	svc := &service.Services{Auth: service.NewAuthService(users, sessions, cfg)}

	log := logger.NewHTTPLogger()
	views := view.NewRenderer(log.Logger)

	h := api.NewHandler(svc, log, views, paths)
	sm := middleware.NewSessionManager(sessions, cfg.Sessions.CookieName, cfg.Sessions.TTL, false)

	return h, sm, users, sessions
}

// cookie с известным токеном и настроенный мок Get
func authedCookie(sessions *svcmocks.MockSessionsRepo, userID int64) *http.Cookie {
	token := "known-session-token"
	hash := crypto.HashSessionToken(token)

	sessions.EXPECT().
		Get(gomock.Any(), hash).
		Return(models.Session{ID: uuid.New(), UserID: utils.Ptr(userID), ExpiresAt: time.Now().Add(time.Hour)}, nil).
		AnyTimes()

	return &http.Cookie{Name: "portal_session", Value: token}
}

// Гостю без cookie создаётся сессия и рендерится страница входа
func TestRouter_Login_FreshVisitor(t *testing.T) {
	h, sm, _, sessions := newTestStack(t, TablePaths())

	sessions.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil)
	sessions.EXPECT().
		TakeFlash(gomock.Any(), gomock.Any()).
		Return("", nil)

	router := NewRouter(h, sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "<h1>Login</h1>") {
		t.Fatal("expected login page")
	}
	if len(rr.Result().Cookies()) != 1 {
		t.Fatal("expected session cookie for fresh visitor")
	}
}

// Гость на защищённой странице уводится на /login
func TestRouter_Dashboard_GuestRedirect(t *testing.T) {
	h, sm, _, sessions := newTestStack(t, TablePaths())

	sessions.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil)

	router := NewRouter(h, sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

// Корень всегда отвечает редиректом на /login, даже аутентифицированному:
// дальше его уведёт guest-guard страницы входа
func TestRouter_Root_RedirectsToLogin(t *testing.T) {
	h, sm, _, sessions := newTestStack(t, TablePaths())

	cookie := authedCookie(sessions, 7)

	router := NewRouter(h, sm)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

// Аутентифицированный на гостевой странице уводится на /dashboard
func TestRouter_Login_AuthedRedirect(t *testing.T) {
	h, sm, _, sessions := newTestStack(t, TablePaths())

	cookie := authedCookie(sessions, 7)

	router := NewRouter(h, sm)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", loc)
	}
}

// Профиль доступен аутентифицированному
func TestRouter_ShowUser_OK(t *testing.T) {
	h, sm, users, sessions := newTestStack(t, TablePaths())

	cookie := authedCookie(sessions, 7)

	users.EXPECT().
		GetByID(gomock.Any(), int64(9)).
		Return(models.User{ID: 9, Name: "Other User", Email: "other@mail.com", CreatedAt: time.Now()}, nil)

	router := NewRouter(h, sm)

	req := httptest.NewRequest(http.MethodGet, "/users/9", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Other User") {
		t.Fatal("expected profile page")
	}
}

// Незнакомый путь — 404 с телом "404 Not Found"
func TestRouter_NotFound(t *testing.T) {
	h, sm, _, _ := newTestStack(t, TablePaths())

	router := NewRouter(h, sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr.Body.String() != "404 Not Found" {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}

// Статика раздаётся без сессии
func TestRouter_Static(t *testing.T) {
	h, sm, _, _ := newTestStack(t, TablePaths())

	router := NewRouter(h, sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "data-toggle-password") {
		t.Fatal("expected app.js content")
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatal("static must not create sessions")
	}
}
