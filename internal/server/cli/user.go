package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
)

// ReadPassword — для тестов
var ReadPassword = readPassword

// NewUserCmd создаёт группу команд управления пользователями.
func NewUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Управление пользователями",
	}
	cmd.AddCommand(newUserCreateCmd(app))
	return cmd
}

// newUserCreateCmd регистрирует пользователя напрямую через AuthService,
// с теми же проверками что и POST /api/auth/register.
//
// Пароль читается с терминала без эха или из stdin (--password-stdin).
func newUserCreateCmd(app *App) *cobra.Command {
	var (
		req       smodels.RegisterRequest
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать пользователя",
		Long: `Создать пользователя.

Пример:
  devlog user create --name Ivan --username ivan --email ivan@example.com
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := ReadPassword(cmd, fromStdin)
			if err != nil {
				return err
			}
			req.Password = pw

			deps, err := OpenDeps(cmd.Context(), app.Cfg, app.Log)
			if err != nil {
				return err
			}
			defer deps.Close()

			resp, err := deps.Services.Auth.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user created: id=%s username=%s\n", resp.User.ID, resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Username, "username", "", "public handle")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
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
