package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parsa000721/CopTrack/apps/cli/cmd/clienv"
	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
)

// Command mints a bearer token for an existing user, signed with AUTH_SECRET.
func Command() *cobra.Command {
	var (
		userID    string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for a user (dev/local use)",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, err := clienv.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			if cfg.AuthSecret == "" {
				return errors.New("AUTH_SECRET is required")
			}
			ttl := cfg.TokenTTL
			if expiresIn > 0 {
				ttl = expiresIn
			}

			user, _, ok := session.DB.View().User(userID)
			if !ok {
				return fmt.Errorf("user %q not found", userID)
			}

			tokens, err := platformauth.NewTokens(cfg.AuthSecret, ttl)
			if err != nil {
				return err
			}
			signed, _, err := tokens.Issue(user)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime; defaults to TOKEN_TTL")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
