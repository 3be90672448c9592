package tests

import (
	"testing"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/validator"
)

// Валидная форма
func TestValidate_OK(t *testing.T) {
	data := map[string]string{
		"name":     "Test User",
		"email":    "test@mail.com",
		"password": "strongpassword",
	}
	rules := []validator.Rule{
		{Field: "name", Constraints: "required"},
		{Field: "email", Constraints: "required|email"},
		{Field: "password", Constraints: "required|min:8"},
	}

	verrs := validator.Validate(data, rules)
	if !verrs.Empty() {
		t.Fatalf("expected no errors, got %v", verrs)
	}
}

// Пустое обязательное поле
func TestValidate_Required(t *testing.T) {
	verrs := validator.Validate(
		map[string]string{"email": ""},
		[]validator.Rule{{Field: "email", Constraints: "required|email"}},
	)

	if verrs.Empty() {
		t.Fatal("expected errors")
	}
	msg, ok := verrs.First()
	if !ok || msg != "This field is required." {
		t.Fatalf("expected required message, got %q", msg)
	}
}

// Пробелы считаются пустым значением
func TestValidate_RequiredWhitespace(t *testing.T) {
	verrs := validator.Validate(
		map[string]string{"name": "   "},
		[]validator.Rule{{Field: "name", Constraints: "required"}},
	)

	if verrs.Empty() {
		t.Fatal("expected errors for whitespace-only value")
	}
}

// Отсутствующий ключ формы — то же, что пустая строка
func TestValidate_MissingKey(t *testing.T) {
	verrs := validator.Validate(
		map[string]string{},
		[]validator.Rule{{Field: "email", Constraints: "required"}},
	)

	if verrs.Empty() {
		t.Fatal("expected errors for missing key")
	}
}

// Невалидный email
func TestValidate_Email(t *testing.T) {
	for _, bad := range []string{"notanemail", "a@b", "a b@mail.com", "@mail.com"} {
		verrs := validator.Validate(
			map[string]string{"email": bad},
			[]validator.Rule{{Field: "email", Constraints: "email"}},
		)
		msg, ok := verrs.First()
		if !ok || msg != "Please enter a valid email." {
			t.Fatalf("%q: expected email message, got %q", bad, msg)
		}
	}
}

// email не проверяется на пустом значении: за пустоту отвечает required
func TestValidate_EmailSkipsEmpty(t *testing.T) {
	verrs := validator.Validate(
		map[string]string{"email": ""},
		[]validator.Rule{{Field: "email", Constraints: "email"}},
	)
	if !verrs.Empty() {
		t.Fatalf("expected no errors, got %v", verrs)
	}
}

// min:N считает символы, не байты
func TestValidate_MinRunes(t *testing.T) {
	// 8 кириллических символов — 16 байт
	verrs := validator.Validate(
		map[string]string{"password": "пароль12"},
		[]validator.Rule{{Field: "password", Constraints: "min:8"}},
	)
	if !verrs.Empty() {
		t.Fatalf("expected no errors, got %v", verrs)
	}

	verrs = validator.Validate(
		map[string]string{"password": "кор12"},
		[]validator.Rule{{Field: "password", Constraints: "min:8"}},
	)
	msg, ok := verrs.First()
	if !ok || msg != "Must be at least 8 characters." {
		t.Fatalf("expected min message, got %q", msg)
	}
}

// Все нарушения поля фиксируются, не только первое
func TestValidate_AllViolationsRecorded(t *testing.T) {
	verrs := validator.Validate(
		map[string]string{"email": ""},
		[]validator.Rule{{Field: "email", Constraints: "required|email"}},
	)

	msgs := verrs.Field("email")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message (email skips empty), got %v", msgs)
	}

	verrs = validator.Validate(
		map[string]string{"password": "ab"},
		[]validator.Rule{{Field: "password", Constraints: "required|min:8|email"}},
	)
	msgs = verrs.Field("password")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
}

// First отдаёт сообщение первого поля в порядке правил
func TestValidate_FirstFollowsRuleOrder(t *testing.T) {
	verrs := validator.Validate(
		map[string]string{"name": "", "email": "bad"},
		[]validator.Rule{
			{Field: "name", Constraints: "required"},
			{Field: "email", Constraints: "required|email"},
		},
	)

	msg, ok := verrs.First()
	if !ok || msg != "This field is required." {
		t.Fatalf("expected name error first, got %q", msg)
	}
}

// Неизвестное ограничение игнорируется
func TestValidate_UnknownConstraintIgnored(t *testing.T) {
	verrs := validator.Validate(
		map[string]string{"email": "test@mail.com"},
		[]validator.Rule{{Field: "email", Constraints: "required|uuid|email"}},
	)
	if !verrs.Empty() {
		t.Fatalf("expected no errors, got %v", verrs)
	}
}
