/*
Copyright © 2025 Euroteck-developer
*/
package cmd

import (
	"context"
	"time"

	"github.com/Euroteck-developer/Reminder-App/database"
	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the reminder tables and notification indexes",
	Long: `Runs the schema migration of the reminder tables in MySQL and creates the
indexes of the notifications collection in MongoDB. Existing columns are
never dropped.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		defer zap.L().Sync() //nolint:errcheck

		db, err := database.NewMySQL(cfg.MySQL.DSN)
		if err != nil {
			zap.L().Fatal("Failed to connect to MySQL", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			zap.L().Fatal("Migration failed", zap.Error(err))
		}
		zap.L().Info("MySQL schema migrated")

		skipMongo, _ := cmd.Flags().GetBool("skip-mongo")
		if skipMongo {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongoClient, err := database.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
		collection := mongoClient.Database(cfg.Mongo.Database).Collection("notifications")
		if err := repository.EnsureNotificationIndexes(ctx, collection); err != nil {
			zap.L().Fatal("Failed to create notification indexes", zap.Error(err))
		}
		zap.L().Info("Notification indexes ensured")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("skip-mongo", false, "only migrate MySQL")
}
