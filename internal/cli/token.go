package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an HS256 token for the price-manager API",
		Long: `Signs a JWT with the shared API secret. The secret comes from --secret or
the AUTH_JWT_SECRET environment variable, the same one the service reads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := v.GetString("auth.jwt_secret")
			if secret == "" {
				return errors.New("a secret is required (--secret or AUTH_JWT_SECRET)")
			}

			token, err := signToken(secret, v.GetString("subject"), v.GetDuration("ttl"), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().String("secret", "", "HMAC secret shared with the service")
	cmd.Flags().String("subject", "pricecalc", "token subject")
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	v.BindPFlag("auth.jwt_secret", cmd.Flags().Lookup("secret"))
	v.BindPFlag("subject", cmd.Flags().Lookup("subject"))
	v.BindPFlag("ttl", cmd.Flags().Lookup("ttl"))
	return cmd
}

func signToken(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
