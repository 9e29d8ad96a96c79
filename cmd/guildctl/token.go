package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/internal/repository"
	"github.com/forgo/guildhall/api/pkg/jwt"
)

var (
	tokenEmail   string
	tokenExpMins int
	tokenJSON    bool
)

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email of an existing user (required)")
	tokenCmd.Flags().IntVar(&tokenExpMins, "exp", 0, "token lifetime in minutes (default: JWT_ACCESS_TOKEN_EXPIRE_MINUTES)")
	tokenCmd.Flags().BoolVar(&tokenJSON, "json", false, "output as JSON")
	_ = tokenCmd.MarkFlagRequired("email")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for an existing user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg, db, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		// Tokens are only honoured for users that exist
		email := model.NormalizeEmail(tokenEmail)
		user, err := repository.NewUserRepository(db).GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("look up %s: %w", email, err)
		}
		if user == nil {
			return fmt.Errorf("no user with email %s", email)
		}

		tokens, err := jwt.NewService(jwt.Config{
			SecretKey:      cfg.JWT.SecretKey,
			Algorithm:      cfg.JWT.Algorithm,
			Issuer:         cfg.JWT.Issuer,
			ExpirationMins: cfg.JWT.ExpirationMins,
		})
		if err != nil {
			return fmt.Errorf("create token service: %w", err)
		}

		ttl := tokens.Expiration()
		if tokenExpMins > 0 {
			ttl = time.Duration(tokenExpMins) * time.Minute
		}
		token, err := tokens.IssueWithExpiry(user.Email, ttl)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}

		out := cmd.OutOrStdout()
		if tokenJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"access_token": token,
				"token_type":   "bearer",
				"expires_in":   int(ttl.Seconds()),
				"user_id":      user.ID,
				"email":        user.Email,
			})
		}

		fmt.Fprintln(out, "Access Token Generated")
		fmt.Fprintln(out, "======================")
		fmt.Fprintf(out, "User ID:  %d\n", user.ID)
		fmt.Fprintf(out, "Email:    %s\n", user.Email)
		fmt.Fprintf(out, "Expires:  %s\n", time.Now().Add(ttl).Format(time.RFC3339))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Token:")
		fmt.Fprintln(out, token)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  curl -H 'Authorization: Bearer %s' http://localhost:%s%s/users/me\n",
			token, cfg.Server.Port, cfg.Server.APIPrefix)
		return nil
	},
}
