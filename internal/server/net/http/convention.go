// Convention-диспетчер: /auth/{action}/{params}
package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/api"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/view"
)

// ConventionPaths возвращает адреса страниц для convention-диспетчера.
func ConventionPaths() api.Paths {
	return api.Paths{
		Login:          "/auth/showLogin",
		LoginSubmit:    "/auth/login",
		Register:       "/auth/showRegister",
		RegisterSubmit: "/auth/register",
		Dashboard:      "/auth/dashboard",
		Logout:         "/auth/logout",
		UserBase:       "/auth/showUser",
	}
}

// action описывает один пункт закрытой карты действий диспетчера.
//
// Карта закрытая намеренно: имена из URL не превращаются в вызовы кода,
// путь без записи в карте получает 404.
type action struct {
	method string
	handle func(h *api.Handler, w http.ResponseWriter, r *http.Request, params []string)
}

// authActions — действия, требующие аутентифицированной сессии.
// Остальные действия гостевые.
var authActions = map[string]bool{
	"dashboard": true,
	"showUser":  true,
	"logout":    true,
}

// actions — закрытая карта действий контроллера auth.
var actions = map[string]action{
	"showLogin": {
		method: http.MethodGet,
		handle: func(h *api.Handler, w http.ResponseWriter, r *http.Request, _ []string) {
			h.ShowLogin(w, r)
		},
	},
	"showRegister": {
		method: http.MethodGet,
		handle: func(h *api.Handler, w http.ResponseWriter, r *http.Request, _ []string) {
			h.ShowRegister(w, r)
		},
	},
	"login": {
		method: http.MethodPost,
		handle: func(h *api.Handler, w http.ResponseWriter, r *http.Request, _ []string) {
			h.Login(w, r)
		},
	},
	"register": {
		method: http.MethodPost,
		handle: func(h *api.Handler, w http.ResponseWriter, r *http.Request, _ []string) {
			h.Register(w, r)
		},
	},
	"dashboard": {
		method: http.MethodGet,
		handle: func(h *api.Handler, w http.ResponseWriter, r *http.Request, _ []string) {
			h.Dashboard(w, r)
		},
	},
	"showUser": {
		method: http.MethodGet,
		handle: func(h *api.Handler, w http.ResponseWriter, r *http.Request, params []string) {
			if len(params) == 0 {
				notFound(w, r)
				return
			}
			h.ShowUser(w, r, params[0])
		},
	},
	"logout": {
		method: http.MethodPost,
		handle: func(h *api.Handler, w http.ResponseWriter, r *http.Request, _ []string) {
			h.Logout(w, r)
		},
	},
}

// NewConventionRouter создаёт HTTP-роутер с convention-диспетчером.
//
// Схема URL: /auth/{action}/{params...}. Пустой путь и голый /auth
// сводятся к действию по умолчанию showLogin. Контроллер один (auth),
// любой другой первый сегмент даёт 404.
func NewConventionRouter(h *api.Handler, sm *middleware.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LoggerMiddleware())

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	// статика вне middleware сессий
	r.Handle("/static/*", view.StaticHandler())

	d := &dispatcher{h: h}

	r.Group(func(r chi.Router) {
		r.Use(sm.Middleware())
		r.HandleFunc("/*", d.dispatch)
	})

	return r
}

// dispatcher разбирает путь на контроллер/действие/параметры
// и прогоняет запрос через guard действия.
type dispatcher struct {
	h *api.Handler
}

func (d *dispatcher) dispatch(w http.ResponseWriter, r *http.Request) {
	segs := splitPath(r.URL.Path)

	controller := "auth"
	if len(segs) > 0 {
		controller = segs[0]
	}
	if controller != "auth" {
		notFound(w, r)
		return
	}

	name := "showLogin"
	if len(segs) > 1 {
		name = segs[1]
	}

	act, ok := actions[name]
	if !ok {
		notFound(w, r)
		return
	}
	if r.Method != act.method {
		notFound(w, r)
		return
	}

	if !d.guardFor(name)(w, r) {
		return
	}

	var params []string
	if len(segs) > 2 {
		params = segs[2:]
	}

	act.handle(d.h, w, r, params)
}

// guardFor возвращает guard действия: RequireAuth для защищённых,
// RequireGuest для остальных.
func (d *dispatcher) guardFor(name string) middleware.Guard {
	if authActions[name] {
		return middleware.RequireAuth(d.h.Paths.Login)
	}
	return middleware.RequireGuest(d.h.Paths.Dashboard)
}

// splitPath режет путь на сегменты, отбрасывая пустые.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
