package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/service"
)

func newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "password",
		Short:        "Password operations",
		SilenceUsage: true,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Check a new password and its confirmation",
		Long: `Prompt for a new password twice without echo and check that both
  entries are filled in and equal. Nothing is sent to the backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			newPassword, err := ReadSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "New Password")
			if err != nil {
				return err
			}
			confirm, err := ReadSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Confirm Password")
			if err != nil {
				return err
			}

			screen := service.NewPasswordReset(NewColorNotifier(cmd.OutOrStdout()))
			return screen.Submit(cmd.Context(), domain.PasswordResetForm{
				NewPassword:     newPassword,
				ConfirmPassword: confirm,
			})
		},
	})
	return cmd
}
