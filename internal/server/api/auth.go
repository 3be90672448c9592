// HTTP-хендлеры страниц входа, регистрации, дашборда и профиля
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/models"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/validator"
	serr "github.com/IvanChernomyrdin/go-auth-portal/internal/shared/errors"
)

// Flash-сообщения страниц аутентификации.
const (
	FlashInvalidCredentials string = "Invalid email or password."
	FlashEmailTaken         string = "Email is already registered."
)

// Правила валидации форм входа и регистрации.
var (
	loginRules = []validator.Rule{
		{Field: "email", Constraints: "required|email"},
		{Field: "password", Constraints: "required"},
	}
	registerRules = []validator.Rule{
		{Field: "name", Constraints: "required"},
		{Field: "email", Constraints: "required|email"},
		{Field: "password", Constraints: "required|min:8"},
	}
)

// authPageData — данные шаблонов login и register.
type authPageData struct {
	Error string
	Paths Paths
}

// userPageData — данные шаблонов dashboard, user и user_not_found.
type userPageData struct {
	User       models.User
	ProfileURL string
	Paths      Paths
}

// ShowLogin отображает страницу входа.
// Flash-сообщение сессии (если было) показывается один раз и стирается.
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	hash, ok := h.tokenHash(w, r)
	if !ok {
		return
	}

	flash, err := h.Svc.Auth.TakeFlash(r.Context(), hash)
	if err != nil {
		h.Log.Logger.Sugar().Errorf("take flash failed: %v", err)
	}

	h.Views.Render(w, http.StatusOK, "login.html", authPageData{
		Error: flash,
		Paths: h.Paths,
	})
}

// ShowRegister отображает страницу регистрации.
func (h *Handler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	hash, ok := h.tokenHash(w, r)
	if !ok {
		return
	}

	flash, err := h.Svc.Auth.TakeFlash(r.Context(), hash)
	if err != nil {
		h.Log.Logger.Sugar().Errorf("take flash failed: %v", err)
	}

	h.Views.Render(w, http.StatusOK, "register.html", authPageData{
		Error: flash,
		Paths: h.Paths,
	})
}

// Login обрабатывает форму входа.
//
// Поведение:
//   - невалидная форма: flash с первой ошибкой, редирект на страницу входа;
//   - неверные учётные данные: flash, редирект на страницу входа;
//   - успех: привязка пользователя к сессии, редирект на дашборд.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	hash, ok := h.tokenHash(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := map[string]string{
		"email":    r.PostFormValue("email"),
		"password": r.PostFormValue("password"),
	}

	if verrs := validator.Validate(form, loginRules); !verrs.Empty() {
		msg, _ := verrs.First()
		h.flashAndRedirect(w, r, hash, msg, h.Paths.Login)
		return
	}

	user, err := h.Svc.Auth.Attempt(r.Context(), form["email"], form["password"])
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidCredentials), errors.Is(err, serr.ErrInvalidInput):
			h.flashAndRedirect(w, r, hash, FlashInvalidCredentials, h.Paths.Login)
		default:
			h.Log.Logger.Sugar().Errorf("login failed: %v", err)
			http.Error(w, serr.ErrInternal.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := h.Svc.Auth.SignIn(r.Context(), hash, user.ID); err != nil {
		h.Log.Logger.Sugar().Errorf("sign in failed: %v", err)
		http.Error(w, serr.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.Paths.Dashboard, http.StatusFound)
}

// Register обрабатывает форму регистрации.
//
// Поведение:
//   - невалидная форма: flash с первой ошибкой, редирект на страницу регистрации;
//   - занятый email: flash, редирект на страницу регистрации;
//   - успех: пользователь создан и привязан к сессии, редирект на дашборд.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	hash, ok := h.tokenHash(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := map[string]string{
		"name":     r.PostFormValue("name"),
		"email":    r.PostFormValue("email"),
		"password": r.PostFormValue("password"),
	}

	if verrs := validator.Validate(form, registerRules); !verrs.Empty() {
		msg, _ := verrs.First()
		h.flashAndRedirect(w, r, hash, msg, h.Paths.Register)
		return
	}

	_, err := h.Svc.Auth.Register(r.Context(), hash, form["name"], form["email"], form["password"])
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrAlreadyExists):
			h.flashAndRedirect(w, r, hash, FlashEmailTaken, h.Paths.Register)
		default:
			h.Log.Logger.Sugar().Errorf("register failed: %v", err)
			http.Error(w, serr.ErrInternal.Error(), http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, h.Paths.Dashboard, http.StatusFound)
}

// Dashboard отображает дашборд текущего пользователя.
//
// Guard уже отсёк гостей, но привязка сессии к пользователю перепроверяется:
// пользователь мог быть удалён между запросами.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	hash, ok := h.tokenHash(w, r)
	if !ok {
		return
	}

	user, err := h.Svc.Auth.CurrentUser(r.Context(), hash)
	if err != nil {
		if errors.Is(err, serr.ErrUnauthorized) {
			http.Redirect(w, r, h.Paths.Login, http.StatusFound)
			return
		}
		h.Log.Logger.Sugar().Errorf("current user failed: %v", err)
		http.Error(w, serr.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}

	h.Views.Render(w, http.StatusOK, "dashboard.html", userPageData{
		User:       user,
		ProfileURL: h.Paths.User(user.ID),
		Paths:      h.Paths,
	})
}

// ShowUser отображает профиль пользователя по id из пути.
//
// Нечисловой или несуществующий id даёт страницу `user not found` со статусом 404.
func (h *Handler) ShowUser(w http.ResponseWriter, r *http.Request, id string) {
	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || userID <= 0 {
		h.Views.Render(w, http.StatusNotFound, "user_not_found.html", userPageData{Paths: h.Paths})
		return
	}

	user, err := h.Svc.Auth.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			h.Views.Render(w, http.StatusNotFound, "user_not_found.html", userPageData{Paths: h.Paths})
			return
		}
		h.Log.Logger.Sugar().Errorf("find user failed: %v", err)
		http.Error(w, serr.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}

	h.Views.Render(w, http.StatusOK, "user.html", userPageData{
		User:  user,
		Paths: h.Paths,
	})
}

// Logout отвязывает пользователя от сессии и уводит на страницу входа.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	hash, ok := h.tokenHash(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Auth.Logout(r.Context(), hash); err != nil {
		h.Log.Logger.Sugar().Errorf("logout failed: %v", err)
		http.Error(w, serr.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.Paths.Login, http.StatusFound)
}

// Root уводит с корня на страницу входа.
// Аутентифицированного пользователя guest-guard страницы входа сам уведёт на дашборд.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Paths.Login, http.StatusFound)
}

// flashAndRedirect сохраняет flash-сообщение и делает редирект.
// Ошибка записи flash не прерывает редирект, только логируется.
func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, hash []byte, msg, to string) {
	if err := h.Svc.Auth.Flash(r.Context(), hash, msg); err != nil {
		h.Log.Logger.Sugar().Errorf("set flash failed: %v", err)
	}
	http.Redirect(w, r, to, http.StatusFound)
}
