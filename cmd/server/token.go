package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "propledger/internal/jwt_token"
	"propledger/internal/platform/config"
	id "propledger/pkg/domain"
)

func newTokenCmd(cfgFile *string) *cobra.Command {
	var (
		address string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a caller token for an address",
		Long:  `token signs a bearer token whose subject is the given address. Mutating API calls act as that address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSigningKey == "" {
				return errors.New("auth.jwt_signing_key is required")
			}

			caller, err := id.ParseAddress(address)
			if err != nil {
				return fmt.Errorf("--address: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
			token, err := tokens.IssueToken(caller, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "caller address (0x-prefixed, 40 hex chars)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.token_ttl)")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
