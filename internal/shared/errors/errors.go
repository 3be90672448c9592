// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service и repository слоях
// и превращаются во flash-сообщения, редиректы и HTTP-статусы в api слое.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные (не раскрываем что именно: email или пароль)
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка (БД, хэширование и т.п.)
	ErrInternal = errors.New("internal error")
	// Нет активной сессии или в сессии нет пользователя
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
)
