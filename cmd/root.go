/*
Copyright © 2025 Euroteck-developer
*/
package cmd

import (
	"log"
	"os"

	"github.com/Euroteck-developer/Reminder-App/config"
	"github.com/Euroteck-developer/Reminder-App/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reminder-app",
	Short: "Task and meeting reminder backend",
	Long: `reminder-app serves the task, meeting and notification API and runs
the reminder schedules. Use "reminder-app start" to run the server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
}

// loadConfig reads the config file and installs the global logger.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if _, err := utils.NewLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	zap.L().Debug("config loaded", zap.String("path", cfgFile))
	return cfg
}
