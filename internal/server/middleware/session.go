// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-auth-portal/internal/shared/errors"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// sessionKey — ключ контекста, под которым хранится текущая сессия.
const sessionKey ctxKey = "session"

// tokenHashKey — ключ контекста с SHA-256 хэшем cookie-токена сессии.
const tokenHashKey ctxKey = "token_hash"

// SessionManager создаёт и восстанавливает браузерные сессии.
//
// На каждом запросе:
//   - читает cookie с токеном сессии
//   - находит сессию в хранилище по хэшу токена
//   - при отсутствии или истечении сессии создаёт новую и ставит cookie
//   - кладёт сессию и хэш токена в context.Context
//
// Сам токен дальше по коду не передаётся, только его хэш.
type SessionManager struct {
	sessions service.SessionsRepo

	CookieName string
	TTL        time.Duration
	Secure     bool
}

// NewSessionManager создаёт SessionManager с заданными параметрами cookie.
func NewSessionManager(sessions service.SessionsRepo, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		sessions:   sessions,
		CookieName: cookieName,
		TTL:        ttl,
		Secure:     secure,
	}
}

// ContextWithSession кладёт сессию и хэш токена в контекст.
func ContextWithSession(ctx context.Context, sess models.Session, tokenHash []byte) context.Context {
	ctx = context.WithValue(ctx, sessionKey, sess)
	return context.WithValue(ctx, tokenHashKey, tokenHash)
}

// SessionFromContext извлекает текущую сессию из контекста.
//
// Возвращает:
//   - сессию
//   - false, если middleware сессий не отработал
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	v := ctx.Value(sessionKey)
	s, ok := v.(models.Session)
	return s, ok
}

// TokenHashFromContext извлекает хэш токена текущей сессии из контекста.
func TokenHashFromContext(ctx context.Context) ([]byte, bool) {
	v := ctx.Value(tokenHashKey)
	h, ok := v.([]byte)
	return h, ok
}

// Middleware возвращает HTTP middleware управления сессией.
//
// В случае ошибки хранилища возвращает HTTP 500 Internal Server Error.
func (m *SessionManager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				sess      models.Session
				tokenHash []byte
			)

			cookie, err := r.Cookie(m.CookieName)
			if err == nil && cookie.Value != "" {
				tokenHash = crypto.HashSessionToken(cookie.Value)

				sess, err = m.sessions.Get(r.Context(), tokenHash)
				if err != nil && !errors.Is(err, serr.ErrNotFound) {
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				if err != nil {
					// неизвестный или истёкший токен: заводим новую сессию
					tokenHash = nil
				}
			}

			if tokenHash == nil {
				sess, tokenHash, err = m.start(r.Context(), w)
				if err != nil {
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
			}

			ctx := ContextWithSession(r.Context(), sess, tokenHash)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// start создаёт новую сессию и выставляет cookie с токеном.
func (m *SessionManager) start(ctx context.Context, w http.ResponseWriter) (models.Session, []byte, error) {
	token, err := crypto.NewSessionToken()
	if err != nil {
		return models.Session{}, nil, err
	}
	tokenHash := crypto.HashSessionToken(token)

	expiresAt := time.Now().Add(m.TTL)

	id, err := m.sessions.Create(ctx, tokenHash, expiresAt)
	if err != nil {
		return models.Session{}, nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	sess := models.Session{
		ID:        id,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	return sess, tokenHash, nil
}
