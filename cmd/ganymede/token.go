package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/security/auth"
)

var tokenFlags struct {
	subject string
	ttl     time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin bearer token",
	Long: `Sign an HS256 token for the /admin endpoints using
security.admin_auth.secret_key and issuer from the configuration.

Examples:
  ganymede token --subject ops --ttl 1h
  curl -H "Authorization: Bearer $(ganymede token --subject ops)" localhost:3000/admin/adapters`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenFlags.subject, "subject", "", "token subject (required)")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", time.Hour, "token lifetime (0 for no expiry)")
	_ = tokenCmd.MarkFlagRequired("subject")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	adminAuth := cfg.Security.AdminAuth
	if adminAuth.SecretKey == "" {
		return cli.NewConfigError(cfgFile, errors.New("security.admin_auth.secret_key is not set"))
	}

	token, err := auth.IssueToken(adminAuth.SecretKey, adminAuth.Issuer, tokenFlags.subject, tokenFlags.ttl)
	if err != nil {
		return cli.NewCommandError("token", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
