// Package validator реализует валидацию форм по набору правил.
//
// Правила задаются упорядоченным списком (порядок объявления важен:
// FirstError берёт первое сообщение первого поля с ошибками именно
// в этом порядке). Спецификация ограничений для поля — строка вида
// "required|email|min:8".
//
// Поддерживаемые ограничения:
//   - required — значение (после трима) не пустое
//   - email    — синтаксически валидный email (проверяется только непустое значение)
//   - min:N    — длина в символах >= N (проверяется только непустое значение)
//
// Неизвестные ограничения игнорируются (задел на будущее, не ошибка).
// Пакет чистый: без состояния и побочных эффектов.
package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Тексты ошибок фиксированы — их показывают пользователю во flash.
const (
	msgRequired = "This field is required."
	msgEmail    = "Please enter a valid email."
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Rule — правило валидации одного поля.
//
// Constraints — ограничения через "|", например "required|email".
type Rule struct {
	Field       string
	Constraints string
}

// Errors — результат валидации: для каждого поля упорядоченный список
// нарушений. Порядок полей повторяет порядок правил.
type Errors struct {
	fields []string
	errs   map[string][]string
}

// Empty сообщает, что нарушений нет.
func (e Errors) Empty() bool {
	return len(e.errs) == 0
}

// Field возвращает список нарушений для поля (nil если их нет).
func (e Errors) Field(name string) []string {
	return e.errs[name]
}

// First возвращает первое сообщение первого поля с ошибками
// (в порядке объявления правил). Используется для выбора flash-сообщения.
func (e Errors) First() (string, bool) {
	for _, f := range e.fields {
		if msgs := e.errs[f]; len(msgs) > 0 {
			return msgs[0], true
		}
	}
	return "", false
}

// Validate проверяет данные формы по правилам.
//
// Значение поля тримится; отсутствующий ключ считается пустой строкой.
// Ограничения поля проверяются в заданном порядке, фиксируются ВСЕ
// нарушения, а не только первое.
func Validate(data map[string]string, rules []Rule) Errors {
	result := Errors{errs: make(map[string][]string)}

	for _, rule := range rules {
		result.fields = append(result.fields, rule.Field)
		value := strings.TrimSpace(data[rule.Field])

		for _, constraint := range strings.Split(rule.Constraints, "|") {
			name, param, _ := strings.Cut(constraint, ":")

			switch name {
			case "required":
				if value == "" {
					result.add(rule.Field, msgRequired)
				}
			case "email":
				if value != "" && !emailRe.MatchString(value) {
					result.add(rule.Field, msgEmail)
				}
			case "min":
				if value == "" {
					continue
				}
				min, err := strconv.Atoi(param)
				if err != nil {
					continue
				}
				// длина в символах, не в байтах
				if utf8.RuneCountInString(value) < min {
					result.add(rule.Field, fmt.Sprintf("Must be at least %d characters.", min))
				}
			}
			// неизвестное ограничение — молча пропускаем
		}
	}

	return result
}

func (e *Errors) add(field, msg string) {
	e.errs[field] = append(e.errs[field], msg)
}
