package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/trilogic/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.HTTP.JWTSecret == "" {
			return fmt.Errorf("no signing secret: set TRILOGIC_JWT_SECRET or http.jwt_secret")
		}
		tok, err := auth.New(cfg.HTTP.JWTSecret).Issue(learner, ttl)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("learner", "", "Learner ID (required)")
	tokenCmd.Flags().Duration("ttl", auth.DefaultTTL, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("learner")
}
