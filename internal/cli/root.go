// Package cli реализует административный командный интерфейс (authctl) auth-portal.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку конфигурации сервера и подключение к базе данных;
//   - выполнение команд и вывод результата администратору.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// В структуре хранятся путь к конфигу и загруженная конфигурация сервера.
// Экземпляр App создаётся при построении root-команды и передаётся в подкоманды.
type App struct {
	// ConfigPath — путь к YAML-конфигу сервера.
	ConfigPath string
	// Cfg — загруженная конфигурация. Заполняется в PersistentPreRunE.
	Cfg *config.Config
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE выполняется инициализация состояния приложения:
// загружается .env, конфиг сервера и открывается подключение к базе данных.
// Миграции из PreRun не запускаются, для них есть отдельная команда migrate.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "authctl — административный CLI auth-portal",
		Long: `authctl.

Команды:
  create-user  Создать пользователя напрямую в базе
  migrate      Прогнать миграции базы данных
  version      Версия и дата сборки

Примеры:

Создание пользователя (пароль спросит интерактивно):
  authctl create-user --name "Test User" --email test@example.com

Миграции:
  authctl migrate
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "no .env file loaded, error: %v\n", err)
			}

			cfg, err := config.Load(app.ConfigPath)
			if err != nil {
				return err
			}
			app.Cfg = cfg

			// миграциями управляет команда migrate, не PreRun
			return config.Init(cfg.DB, config.MigrationsConfig{Enabled: false})
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "./configs/server.yaml", "path to server config")

	cmd.AddCommand(NewCreateUserCmd(app))
	cmd.AddCommand(NewMigrateCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
