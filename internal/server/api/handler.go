// Package api реализует HTTP-слой сервера auth-portal.
//
// Пакет отвечает за:
//   - обработку входящих запросов форм и рендеринг HTML-страниц;
//   - маппинг доменных ошибок (service/repository) в редиректы и flash-сообщения;
//   - проверку входных данных через validator.
package api

import (
	"fmt"
	"net/http"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/service"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/view"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/shared/logger"
)

// Paths — адреса страниц приложения.
//
// Обработчики и guard-ы не знают, какой из двух роутеров их вызывает,
// поэтому все цели редиректов и ссылок приходят снаружи.
type Paths struct {
	Login          string // страница входа (GET)
	LoginSubmit    string // обработка формы входа (POST)
	Register       string // страница регистрации (GET)
	RegisterSubmit string // обработка формы регистрации (POST)
	Dashboard      string // дашборд (GET)
	Logout         string // выход (POST)
	UserBase       string // префикс страницы профиля, id добавляется сегментом
}

// User возвращает адрес страницы профиля пользователя id.
func (p Paths) User(id int64) string {
	return fmt.Sprintf("%s/%d", p.UserBase, id)
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Views: рендерер HTML-шаблонов;
//   - Paths: адреса страниц для редиректов и ссылок.
type Handler struct {
	Svc   *service.Services
	Log   *logger.HTTPLogger
	Views *view.Renderer
	Paths Paths
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, views *view.Renderer, paths Paths) *Handler {
	return &Handler{
		Svc:   svc,
		Log:   log,
		Views: views,
		Paths: paths,
	}
}

// tokenHash достаёт хэш токена сессии из контекста запроса.
// Отсутствие хэша означает, что middleware сессий не подключён.
func (h *Handler) tokenHash(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	hash, ok := middleware.TokenHashFromContext(r.Context())
	if !ok {
		h.Log.Logger.Sugar().Error("session middleware is not wired")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return hash, true
}
