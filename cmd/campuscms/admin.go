package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campuscms/internal/auth"
	"campuscms/internal/menu"
	"campuscms/internal/models"
	"campuscms/internal/setting"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tasks",
}

var (
	newUsername    string
	newDisplayName string
	newPassword    string
	newRole        string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user with a password login",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		svc := auth.NewService(auth.NewRepository(a.db), nil, "", a.log)
		user, err := svc.RegisterUser(cmd.Context(), newUsername, newDisplayName, newPassword, newRole)
		if err != nil {
			return err
		}
		a.log.Info("user created", zap.Int("user_id", user.ID), zap.String("role", user.Role))
		fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (id %d)\n", user.Role, user.Username, user.ID)
		return nil
	},
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Replace the password of an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		repo := auth.NewRepository(a.db)
		user, err := repo.FindUserByUsername(cmd.Context(), newUsername)
		if err != nil {
			return fmt.Errorf("user %q: %w", newUsername, err)
		}
		svc := auth.NewService(repo, nil, "", a.log)
		if err := svc.ChangePassword(cmd.Context(), user.ID, newPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password of %q updated\n", user.Username)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default settings and main navigation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		if err := setting.NewRepository(a.db).Seed(cmd.Context()); err != nil {
			return err
		}
		created, err := menu.NewRepository(a.db).SeedPrimary(cmd.Context())
		if err != nil {
			return err
		}
		a.log.Info("defaults seeded", zap.Bool("primary_menu_created", created))
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "login name")
	createUserCmd.Flags().StringVar(&newDisplayName, "name", "", "display name (defaults to the username)")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "password")
	createUserCmd.Flags().StringVar(&newRole, "role", models.RoleWriter, "role: admin or penulis")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")

	setPasswordCmd.Flags().StringVar(&newUsername, "username", "", "login name")
	setPasswordCmd.Flags().StringVar(&newPassword, "password", "", "new password")
	setPasswordCmd.MarkFlagRequired("username")
	setPasswordCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(createUserCmd, setPasswordCmd)
}
