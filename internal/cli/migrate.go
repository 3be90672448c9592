package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
)

// NewMigrateCmd создаёт CLI-команду для прогона миграций базы данных.
//
// Путь к миграциям берётся из конфига (migrations.path).
//
// Пример использования:
//
//	authctl migrate
func NewMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Прогнать миграции базы данных",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RunMigrations(config.GetDB(), app.Cfg.Migrations.Path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
