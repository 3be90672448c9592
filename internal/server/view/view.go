// Package view отвечает за серверный рендеринг HTML-страниц.
//
// Шаблоны и статика вшиты в бинарник через embed, поэтому деплой
// не зависит от рабочей директории.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer рендерит HTML-шаблоны приложения.
type Renderer struct {
	tmpl *template.Template
	log  *zap.Logger
}

// NewRenderer парсит вшитые шаблоны.
// Паникует при ошибке парсинга: битый шаблон — ошибка сборки, не рантайма.
func NewRenderer(log *zap.Logger) *Renderer {
	return &Renderer{
		tmpl: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		log:  log,
	}
}

// Render рендерит шаблон name с данными data и статусом status.
//
// Шаблон сначала рендерится в буфер: при ошибке клиент получает
// чистый 500 вместо обрезанной страницы.
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		if v.log != nil {
			v.log.Error("render template",
				zap.String("template", name),
				zap.Error(err),
			)
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StaticHandler возвращает обработчик вшитой статики (URL-префикс /static/).
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
