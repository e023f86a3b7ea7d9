/*
Copyright © 2025 Euroteck-developer
*/
package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/Euroteck-developer/Reminder-App/config"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/Euroteck-developer/Reminder-App/utils"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for local testing",
	Long: `Signs an access token with jwt_secret in the same format the profile
service issues, so the API can be exercised without it.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		id, _ := cmd.Flags().GetInt64("id")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetInt("role")
		level, _ := cmd.Flags().GetInt("level")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if !types.Role(role).Valid() {
			log.Fatalf("Unknown role %d", role)
		}
		token, err := utils.GenerateUserToken(cfg.JWTSecret, types.Actor{
			ID:    id,
			Email: email,
			Role:  types.Role(role),
			Level: level,
		}, ttl)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().Int64("id", 0, "user id")
	tokenCmd.Flags().String("email", "", "user email")
	tokenCmd.Flags().Int("role", int(types.RoleUser), "role id, 1 superadmin to 5 user")
	tokenCmd.Flags().Int("level", 0, "manager level")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("id")
}
