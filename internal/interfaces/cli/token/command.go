package token

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fylo-cloud/fylo/internal/infrastructure/auth"
	"github.com/fylo-cloud/fylo/internal/infrastructure/config"
	"github.com/fylo-cloud/fylo/internal/shared/biztime"
)

func NewCommand() *cobra.Command {
	var (
		configPath string
		subject    string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin API token",
		Long:  `Sign a bearer token carrying the admin role with the configured JWT secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("", configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Auth.JWT.Secret == "" {
				return fmt.Errorf("auth.jwt.secret is not configured")
			}
			if cfg.UsesDefaultJWTSecret() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: signing with the default JWT secret")
			}

			svc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
			return mint(cmd.OutOrStdout(), svc, subject, ttl)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "admin", "Token subject (who the token is for)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.jwt.access_exp_minutes)")

	return cmd
}

type tokenIssuer interface {
	Generate(subject string, ttl time.Duration) (string, time.Time, error)
}

func mint(out io.Writer, issuer tokenIssuer, subject string, ttl time.Duration) error {
	if subject == "" {
		return fmt.Errorf("subject must not be empty")
	}

	signed, expiresAt, err := issuer.Generate(subject, ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, signed)
	fmt.Fprintf(out, "# expires %s\n", biztime.FormatInBizTimezone(expiresAt, time.RFC3339))
	return nil
}
