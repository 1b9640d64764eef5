package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/core/service"
	"github.com/99minutos/staff-portal/pkg/logger"
)

var (
	emailFlag    string
	usernameFlag string
	passwordFlag string
	roleFlag     string
	stdinFlag    bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage portal accounts",
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a portal account in the user repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}
		if usernameFlag == "" {
			return fmt.Errorf("--username flag is required")
		}
		role, err := domain.ParseRole(roleFlag)
		if err != nil || !role.Authenticated() {
			return fmt.Errorf("--role must be ADMIN or EMPLOYEE")
		}

		password := passwordFlag
		if stdinFlag {
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		ctx := cmd.Context()
		store, err := openPersistent(ctx)
		if err != nil {
			return err
		}
		defer store.close(ctx)

		authService := service.NewAuthService(store.users, logger.Component("auth"))
		user, err := authService.Register(ctx, ports.RegisterInput{
			Username: usernameFlag,
			Email:    emailFlag,
			Password: password,
			Role:     role,
		})
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with id %s\n", user.Username, user.Role, user.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&emailFlag, "email", "", "email address the account signs in with")
	createUserCmd.Flags().StringVar(&usernameFlag, "username", "", "display name shown in the navbar")
	createUserCmd.Flags().StringVar(&passwordFlag, "password", "", "password (use --stdin to avoid shell history)")
	createUserCmd.Flags().StringVar(&roleFlag, "role", "EMPLOYEE", "ADMIN or EMPLOYEE")
	createUserCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "read the password from stdin")

	usersCmd.AddCommand(createUserCmd)
}
