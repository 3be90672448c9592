// Package http реализует маршрутизацию HTTP-слоя сервера auth-portal.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - guard-цепочки доступа (гость/аутентифицированный);
//   - раздачу статики.
//
// Поддерживаются два способа диспетчеризации: явная таблица маршрутов
// (router.go) и convention-диспетчер /auth/{action}/{params} (convention.go).
// Выбор делается конфигом server.router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/api"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/view"
)

// TablePaths возвращает адреса страниц для табличного роутера.
func TablePaths() api.Paths {
	return api.Paths{
		Login:          "/login",
		LoginSubmit:    "/login",
		Register:       "/register",
		RegisterSubmit: "/register",
		Dashboard:      "/dashboard",
		Logout:         "/logout",
		UserBase:       "/users",
	}
}

// NewRouter создаёт HTTP-роутер с явной таблицей маршрутов.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования для всех запросов;
//   - middleware сессий для всех страниц (статика сессию не создаёт);
//   - гостевую группу: /login, /register;
//   - защищённую группу: /dashboard, /users/{id}, /logout.
func NewRouter(h *api.Handler, sm *middleware.SessionManager) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware())

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	// статика вне middleware сессий
	r.Handle("/static/*", view.StaticHandler())

	paths := h.Paths

	r.Group(func(r chi.Router) {
		r.Use(sm.Middleware())

		r.Get("/", h.Root)

		// гостевые страницы
		r.Group(func(r chi.Router) {
			r.Use(middleware.Chain(middleware.RequireGuest(paths.Dashboard)))
			r.Get("/login", h.ShowLogin)
			r.Post("/login", h.Login)
			r.Get("/register", h.ShowRegister)
			r.Post("/register", h.Register)
		})

		// защищённые страницы
		r.Group(func(r chi.Router) {
			r.Use(middleware.Chain(middleware.RequireAuth(paths.Login)))
			r.Get("/dashboard", h.Dashboard)
			r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
				h.ShowUser(w, req, chi.URLParam(req, "id"))
			})
			r.Post("/logout", h.Logout)
		})
	})

	return r
}

// notFound отвечает на незнакомые пути телом "404 Not Found".
func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("404 Not Found"))
}
