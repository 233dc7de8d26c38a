// Package cli реализует командный интерфейс сервера DevLog.
//
// Команды:
//   - serve        запуск HTTP API;
//   - migrate up   применить миграции postgres;
//   - migrate down откатить миграции postgres;
//   - user create  завести пользователя без HTTP (например, первого администратора портфолио);
//   - version      версия и дата сборки.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// DefaultConfigPath — где serve ищет конфиг, если --config не передан.
const DefaultConfigPath = "./configs/server.yaml"

// App содержит состояние CLI, разделяемое между командами.
//
// Cfg и Log заполняются в PersistentPreRunE root-команды.
type App struct {
	// ConfigPath — путь к YAML конфигу сервера.
	ConfigPath string
	// EnvFile — .env файл; отсутствие файла не ошибка.
	EnvFile string

	Cfg *config.Config
	Log *logger.HTTPLogger
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются командой version.
// В PersistentPreRunE загружаются .env, конфиг и создаётся логгер.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "devlog",
		Short: "DevLog — бэкенд портфолио разработчика (проекты, заметки, публичная страница)",
		Long: `DevLog server.

Команды:
  serve        Запустить HTTP API
  migrate      Применить или откатить миграции postgres
  user create  Создать пользователя
  version      Версия и дата сборки

Примеры:

Запуск:
  devlog serve --config ./configs/server.yaml

Миграции:
  devlog migrate up
  devlog migrate down --steps 1

Пользователь:
  echo "password123" | devlog user create --name Ivan --username ivan --email ivan@example.com --password-stdin
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return app.init()
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", DefaultConfigPath, "path to server config")
	cmd.PersistentFlags().StringVar(&app.EnvFile, "env-file", ".env", "dotenv file with secrets")

	cmd.AddCommand(NewServeCmd(app))
	cmd.AddCommand(NewMigrateCmd(app))
	cmd.AddCommand(NewUserCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// init загружает .env и конфиг, создаёт логгер.
func (a *App) init() error {
	envErr := godotenv.Load(a.EnvFile)

	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Cfg = cfg
	a.Log = logger.New(logger.Options{
		File:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Stdout: cfg.Log.Stdout,
	})

	if envErr != nil {
		a.Log.Sugar().Debugf("no .env file loaded, error: %v", envErr)
	}
	return nil
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
