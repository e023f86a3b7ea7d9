/*
Copyright © 2025 Euroteck-developer
*/
package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/Euroteck-developer/Reminder-App/database"
	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/Euroteck-developer/Reminder-App/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a performance report as a table",
	Long: `Runs the same performance query as GET /api/stats/user-performance on
behalf of the --as user and prints the rows and the summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		defer zap.L().Sync() //nolint:errcheck

		asID, _ := cmd.Flags().GetInt64("as")
		statsType, _ := cmd.Flags().GetString("type")
		userID, _ := cmd.Flags().GetString("user")

		db, err := database.NewMySQL(cfg.MySQL.DSN)
		if err != nil {
			zap.L().Fatal("Failed to connect to MySQL", zap.Error(err))
		}
		ctx := context.Background()

		u, err := repository.NewUserRepo(db).GetUser(ctx, asID)
		if err != nil {
			zap.L().Fatal("Failed to load user", zap.Int64("user_id", asID), zap.Error(err))
		}
		actor := types.Actor{ID: u.ID, Email: u.Email, Role: u.RoleID, Level: u.Level}
		if userID == "" {
			userID = strconv.FormatInt(u.ID, 10)
		}

		report, err := service.NewStatsService(repository.NewStatsRepo(db)).UserPerformance(ctx, actor, statsType, userID)
		if err != nil {
			zap.L().Fatal("Failed to build report", zap.Error(err))
		}
		utils.RenderPerformance(os.Stdout, report)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Int64("as", 0, "id of the user running the report")
	statsCmd.Flags().StringP("type", "t", string(types.StatsAssigned), "personal, assigned, created or all")
	statsCmd.Flags().StringP("user", "u", "", "user the report is about, defaults to --as")
	_ = statsCmd.MarkFlagRequired("as")
}
