package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/repository"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/validator"
)

// NewCreateUserCmd создаёт CLI-команду для создания пользователя напрямую в базе.
//
// Команда применяет те же правила валидации, что и форма регистрации,
// и хэширует пароль теми же параметрами, что и сервер.
// Пароль запрашивается интерактивно без эха; флаг --password предназначен
// только для скриптов.
//
// Пример использования:
//
//	authctl create-user --name "Test User" --email test@example.com
func NewCreateUserCmd(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Создать пользователя напрямую в базе",
		Long: `Создание пользователя в обход формы регистрации.

Пример:
  authctl create-user --name "Test User" --email test@example.com
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = pw
			}

			form := map[string]string{
				"name":     name,
				"email":    email,
				"password": password,
			}
			rules := []validator.Rule{
				{Field: "name", Constraints: "required"},
				{Field: "email", Constraints: "required|email"},
				{Field: "password", Constraints: "required|min:8"},
			}
			if verrs := validator.Validate(form, rules); !verrs.Empty() {
				msg, _ := verrs.First()
				return errors.New(msg)
			}

			hash, err := crypto.HashPassword(password, crypto.PasswordParams{
				Hasher: app.Cfg.Password.Hasher,
				Bcrypt: crypto.BcryptParams{Cost: app.Cfg.Password.Bcrypt.Cost},
				Argon2: crypto.Argon2Params{
					Time:      app.Cfg.Password.Argon2.Time,
					MemoryKiB: app.Cfg.Password.Argon2.MemoryKiB,
					Threads:   app.Cfg.Password.Argon2.Threads,
					KeyLen:    app.Cfg.Password.Argon2.KeyLen,
					SaltLen:   app.Cfg.Password.Argon2.SaltLen,
				},
			})
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			users := repository.NewUsersRepository(config.GetDB())

			normalized := strings.TrimSpace(strings.ToLower(email))
			id, err := users.Create(cmd.Context(), strings.TrimSpace(name), normalized, hash, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user created: id=%d email=%s\n", id, normalized)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password (omit to be prompted)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}

// readPassword запрашивает пароль с терминала без эха.
func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
