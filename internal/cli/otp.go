package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/service"
)

func newOTPCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "otp",
		Short:        "One-time code operations",
		SilenceUsage: true,
	}
	cmd.AddCommand(newOTPVerifyCmd(opts))
	return cmd
}

func newOTPVerifyCmd(opts *options) *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the 6-digit code sent to an email address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nav := &service.PendingNavigation{}
			notifier := NewColorNotifier(cmd.ErrOrStderr())
			screen, err := service.NewOTPVerification(email, service.OTPDependencies{
				API:       opts.client(),
				Notifier:  notifier,
				Navigator: nav,
			})
			if errors.Is(err, service.ErrEmailRequired) {
				notifier.Notify(cmd.Context(), domain.Notice{Kind: domain.NoticeError, Message: service.MsgEmailMissing})
				return err
			}
			if err != nil {
				return err
			}

			code = strings.TrimSpace(code)
			if len(code) > domain.OTPLength {
				return fmt.Errorf("the code has %d digits", domain.OTPLength)
			}
			for i, r := range code {
				if !screen.Input(i, string(r)) {
					return fmt.Errorf("invalid character %q in code", r)
				}
			}

			if err := screen.Submit(cmd.Context()); err != nil {
				return err
			}
			if route, _, ok := nav.Target(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Continue at %s\n", route)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "address the code was sent to")
	cmd.Flags().StringVar(&code, "code", "", "the 6-digit code")

	return cmd
}
