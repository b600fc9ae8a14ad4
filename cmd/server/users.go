package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dmchat/internal/security"
	"dmchat/internal/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		st.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.StoreDriver)
		return nil
	},
}

var (
	userName    string
	userEmail   string
	userPicture string
	tokenTTL    time.Duration
)

// Users come from an external identity system; useradd covers local setups.
var userAddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Register a user and print its id",
	Example: `  dmchat useradd --name Alice --email alice@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		auth := service.NewAuthService(st.users, security.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL()))
		in := service.RegisterInput{Name: userName, ProfilePic: userPicture}
		if userEmail != "" {
			in.Email = &userEmail
		}
		user, err := auth.Register(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), user.ID)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue an access token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ttl := cfg.AccessTokenTTL()
		if tokenTTL > 0 {
			ttl = tokenTTL
		}
		auth := service.NewAuthService(st.users, security.NewTokenService(cfg.JWTSecret, ttl))
		resp, err := auth.IssueToken(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, userAddCmd, tokenCmd)

	userAddCmd.Flags().StringVar(&userName, "name", "", "display name (required)")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userAddCmd.Flags().StringVar(&userPicture, "profile-pic", "", "profile picture URL")
	_ = userAddCmd.MarkFlagRequired("name")

	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default ACCESS_TOKEN_EXPIRE_MINUTES)")
}
