package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/config"
)

var (
	tokenEmail string
	tokenTTL   time.Duration

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for --user",
		Long: `token signs an HS256 token for --user with the configured jwt_secret and
jwt_issuer. Use it against a simulator running with auth_mode: jwt, for
example as simctl load --token.`,
		Example: `  INTERNSIM_JWT_SECRET=s3cret simctl token --user student-1 --ttl 24h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("token needs --user")
			}
			if tokenTTL <= 0 {
				return fmt.Errorf("--ttl must be positive, got %s", tokenTTL)
			}
			cfg, err := config.LoadFile(cmd.Context(), cfgFile)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("jwt_secret is not configured")
			}
			tok, err := identity.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer).Issue(userID, tokenEmail, tokenTTL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
