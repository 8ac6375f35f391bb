package cmd

import (
	"errors"
	"fmt"

	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	resetEmail    string
	resetPassword string
)

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for an existing user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap("reset-password")
		if err != nil {
			return err
		}
		defer rt.close()

		if err := resetUserPassword(repository.NewUserRepo(rt.db), resetEmail, resetPassword); err != nil {
			return err
		}
		rt.log.Info("password_reset", zap.String("email", resetEmail))
		fmt.Fprintf(cmd.OutOrStdout(), "Password for %s has been reset\n", resetEmail)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetPasswordCmd)

	resetPasswordCmd.Flags().StringVar(&resetEmail, "email", "", "Email of the user to update")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "New plain-text password")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}

func resetUserPassword(users repository.UserRepository, email, password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}

	user, err := users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("find user: %w", err)
	}

	hashed := model.User{}
	if err := hashed.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, hashed.Password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
