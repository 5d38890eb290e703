package cmd

import (
	"context"
	"fmt"

	"ratlist/internal/config"
	"ratlist/internal/server"
	"ratlist/internal/services"

	"github.com/spf13/cobra"
)

var userAddFlags struct {
	username  string
	password  string
	firstName string
	lastName  string
}

var userAddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Register a local user",
	Long: `Register a user who logs in with a password instead of Google. Usage:

	ratlist useradd --username ann@example.com --password s3cret --first Ann --last Lee
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.PersistentStore() {
			return fmt.Errorf("useradd needs a persistent store; STORE_DRIVER=%s with DSN %q would discard the user on exit", cfg.StoreDriver, cfg.DatabaseDSN)
		}

		stores, err := server.OpenStores(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to open stores: %w", err)
		}
		defer stores.Close(context.Background())

		user, err := services.NewAuthService(stores.Users).RegisterUser(cmd.Context(),
			userAddFlags.username, userAddFlags.password, userAddFlags.firstName, userAddFlags.lastName)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userAddCmd)

	userAddCmd.Flags().StringVar(&userAddFlags.username, "username", "", "email address used to log in")
	userAddCmd.Flags().StringVar(&userAddFlags.password, "password", "", "password, at least 6 characters")
	userAddCmd.Flags().StringVar(&userAddFlags.firstName, "first", "", "first name")
	userAddCmd.Flags().StringVar(&userAddFlags.lastName, "last", "", "last name")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")
}
