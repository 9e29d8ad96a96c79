package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/guildhall/api/internal/repository"
	"github.com/forgo/guildhall/api/internal/service"
)

var (
	userEmail string
	userJSON  bool
)

func init() {
	for _, c := range []*cobra.Command{userActivateCmd, userDeactivateCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "email of the account (required)")
		c.Flags().BoolVar(&userJSON, "json", false, "print the user as JSON")
		_ = c.MarkFlagRequired("email")
		userCmd.AddCommand(c)
	}
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Allow a user to edit their profile again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, true)
	},
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Stop a user from editing their profile",
	Long: `Mark an account inactive. The user can still sign in and read, but
PUT /users/me answers 403 until the account is activated again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, false)
	},
}

func setActive(cmd *cobra.Command, active bool) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	_, db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	users := service.NewUserService(service.UserServiceConfig{UserRepo: repository.NewUserRepository(db)})
	user, err := users.SetActive(ctx, userEmail, active)
	if err != nil {
		return fmt.Errorf("update %s: %w", userEmail, err)
	}

	out := cmd.OutOrStdout()
	if userJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(user)
	}
	state := "inactive"
	if user.IsActive {
		state = "active"
	}
	fmt.Fprintf(out, "User %d (%s) is %s\n", user.ID, user.Email, state)
	return nil
}
