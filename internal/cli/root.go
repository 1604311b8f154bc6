// Package cli implements invoichctl, a terminal client that drives the same
// screens as the web front end.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/invoich-web/internal/backend"
	"github.com/spec-kit/invoich-web/internal/config"
	"github.com/spec-kit/invoich-web/internal/domain"
	"github.com/spec-kit/invoich-web/internal/observability"
)

const defaultBaseURL = "https://invoich-backend.onrender.com"

// options are the persistent flags shared by every command.
type options struct {
	baseURL string
	token   string
	userID  string
	timeout time.Duration
	verbose bool
}

func (o *options) client() *backend.Client {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(config.LoggerConfig{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		logger = zap.NewNop()
	}
	return backend.NewClientWithHTTP(strings.TrimRight(o.baseURL, "/"), o.httpClient(), logger, nil)
}

func (o *options) httpClient() *http.Client {
	return &http.Client{Timeout: o.timeout}
}

// session builds the signed-in session from flags or environment.
func (o *options) session() (domain.Session, error) {
	if o.token == "" || o.userID == "" {
		return domain.Session{}, fmt.Errorf("a token and user id are required: pass --token and --user-id or set INVOICH_TOKEN and INVOICH_USER_ID")
	}
	return domain.Session{ID: "invoichctl", UserID: o.userID, Token: o.token, CreatedAt: time.Now().UTC()}, nil
}

// NewRootCmd creates the invoichctl root command with all subcommands.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "invoichctl",
		Short: "Manage Invoich customers from the terminal",
		Long: `invoichctl talks to the Invoich backend directly.

  List, search, view, delete and bulk-import customers, verify a one-time code
  and check a new password, with the same rules as the web screens.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", envOr("INVOICH_BASE_URL", defaultBaseURL), "backend base URL")
	flags.StringVar(&opts.token, "token", os.Getenv("INVOICH_TOKEN"), "bearer token of the signed-in user")
	flags.StringVar(&opts.userID, "user-id", os.Getenv("INVOICH_USER_ID"), "id of the signed-in user")
	flags.DurationVar(&opts.timeout, "timeout", 15*time.Second, "per-request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log backend calls")

	cmd.AddCommand(newCustomersCmd(opts))
	cmd.AddCommand(newOTPCmd(opts))
	cmd.AddCommand(newPasswordCmd())

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
