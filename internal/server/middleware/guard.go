package middleware

import (
	"net/http"
)

// Guard — проверка доступа к маршруту.
//
// Возвращает true, если запрос можно пропустить дальше. При false guard
// сам пишет ответ (обычно редирект), и цепочка обрывается.
type Guard func(w http.ResponseWriter, r *http.Request) bool

// RequireAuth пропускает только аутентифицированные сессии.
// Гостей отправляет редиректом на страницу входа.
func RequireAuth(loginPath string) Guard {
	return func(w http.ResponseWriter, r *http.Request) bool {
		sess, ok := SessionFromContext(r.Context())
		if !ok || !sess.Authenticated() {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return false
		}
		return true
	}
}

// RequireGuest пропускает только гостей.
// Аутентифицированных отправляет редиректом на дашборд.
func RequireGuest(dashboardPath string) Guard {
	return func(w http.ResponseWriter, r *http.Request) bool {
		sess, ok := SessionFromContext(r.Context())
		if ok && sess.Authenticated() {
			http.Redirect(w, r, dashboardPath, http.StatusFound)
			return false
		}
		return true
	}
}

// Chain оборачивает обработчик цепочкой guard-ов.
//
// Guard-ы выполняются в порядке перечисления; первый отказавший
// завершает обработку запроса.
func Chain(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, g := range guards {
				if !g(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
