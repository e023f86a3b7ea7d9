/*
Copyright © 2025 Euroteck-developer
*/
package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Euroteck-developer/Reminder-App/database"
	"github.com/Euroteck-developer/Reminder-App/handler"
	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reminder server",
	Long:  `Starts the HTTP and websocket API together with the mail workers and reminder schedules`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		defer zap.L().Sync() //nolint:errcheck
		if err := cfg.ValidateServer(); err != nil {
			zap.L().Fatal("Invalid config", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := database.NewMySQL(cfg.MySQL.DSN)
		if err != nil {
			zap.L().Fatal("Failed to connect to MySQL", zap.Error(err))
		}

		mongoClient, err := database.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
		notifications := mongoClient.Database(cfg.Mongo.Database).Collection("notifications")
		if err := repository.EnsureNotificationIndexes(ctx, notifications); err != nil {
			zap.L().Warn("Failed to ensure notification indexes", zap.Error(err))
		}

		var mailQueue service.MailQueue
		switch cfg.Queue.Backend {
		case "redis":
			rdb, err := database.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
			}
			defer rdb.Close()
			mailQueue = service.NewRedisMailQueue(rdb, cfg.Queue.RedisKey, cfg.Queue.Size, cfg.Queue.EnqueueTimeout)
		default:
			mailQueue = service.NewMemoryMailQueue(cfg.Queue.Size, cfg.Queue.EnqueueTimeout)
		}

		var mailer service.Mailer
		if cfg.Mail.Host == "" {
			zap.L().Warn("mail.host is empty, emails are logged instead of sent")
			mailer = service.NewLogMailer()
		} else {
			mailer, err = service.NewSMTPMailer(service.SMTPConfig{
				Host:     cfg.Mail.Host,
				Port:     cfg.Mail.Port,
				Username: cfg.Mail.Username,
				Password: cfg.Mail.Password,
				From:     cfg.Mail.From,
			})
			if err != nil {
				zap.L().Fatal("Invalid mail config", zap.Error(err))
			}
		}

		//init repo
		userRepo := repository.NewUserRepo(db)
		taskRepo := repository.NewTaskRepo(db)
		meetingRepo := repository.NewMeetingRepo(db)
		selfReminderRepo := repository.NewSelfReminderRepo(db)
		statsRepo := repository.NewStatsRepo(db)
		notificationRepo := repository.NewNotificationRepo(notifications)

		//init service
		hub := service.NewHub(cfg.CorsOrigin)
		notificationService := service.NewNotificationService(
			notificationRepo,
			userRepo,
			hub,
			mailQueue,
			service.NewMailRenderer(cfg.FrontendURL),
		)
		taskService := service.NewTaskService(taskRepo, userRepo, notificationService)
		meetingService := service.NewMeetingService(meetingRepo, userRepo, notificationService)
		selfReminderService := service.NewSelfReminderService(selfReminderRepo, taskRepo, notificationService)
		statsService := service.NewStatsService(statsRepo)
		userService := service.NewUserService(userRepo)

		drainBudget := shutdownTimeout + cfg.Queue.EnqueueTimeout
		if cfg.Queue.Backend == "redis" {
			// Queued mail survives the restart.
			drainBudget = 0
		}
		stopWorkers := startMailWorkers(ctx, mailQueue, mailer, cfg.Queue.Workers, drainBudget)

		scheduler := service.NewScheduler(service.SchedulerConfig{
			DailySchedule: cfg.Reminder.DailySchedule,
			RoundInterval: cfg.Reminder.RoundInterval,
			SelfSchedule:  cfg.Reminder.SelfSchedule,
		}, taskRepo, selfReminderService, notificationService)
		if err := scheduler.Start(ctx); err != nil {
			zap.L().Fatal("Failed to start scheduler", zap.Error(err))
		}

		// Initialize handlers
		router := handler.SetupRouter(cfg.JWTSecret, handler.Handlers{
			Cors:         handler.NewCorsHandler(cfg.CorsOrigin),
			Task:         handler.NewTaskHandler(taskService),
			Stats:        handler.NewStatsHandler(statsService),
			Meeting:      handler.NewMeetingHandler(meetingService),
			Notification: handler.NewNotificationHandler(notificationService),
			SelfReminder: handler.NewSelfReminderHandler(selfReminderService),
			User:         handler.NewUserHandler(userService),
			WS:           handler.NewWSHandler(hub, notificationService),
		})

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
			// Websocket handlers block on their request context, so it has
			// to end with the process.
			BaseContext: func(net.Listener) context.Context { return ctx },
		}

		serverErr := make(chan error, 1)
		go func() {
			zap.L().Info("Starting server", zap.String("port", cfg.Port))
			serverErr <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErr:
			if !errors.Is(err, http.ErrServerClosed) {
				zap.L().Error("Server error", zap.Error(err))
			}
			stop()
		case <-ctx.Done():
		}

		zap.L().Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Server shutdown failed", zap.Error(err))
		}
		scheduler.Stop()
		stopWorkers()
		zap.L().Info("Server stopped")
	},
}

// startMailWorkers runs the mail workers detached from ctx, so requests
// finishing during shutdown can still queue mail. The returned stop waits up
// to drainBudget for the queue to empty, then stops the workers.
func startMailWorkers(ctx context.Context, q service.MailQueue, mailer service.Mailer, n int, drainBudget time.Duration) (stop func()) {
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		service.RunMailWorkers(workerCtx, q, mailer, n)
	}()
	return func() {
		drainMailQueue(q, drainBudget)
		cancel()
		<-done
	}
}

func drainMailQueue(q service.MailQueue, budget time.Duration) {
	ctx := context.Background()
	deadline := time.Now().Add(budget)
	for {
		n, err := q.Len(ctx)
		if err != nil || n == 0 {
			return
		}
		if !time.Now().Before(deadline) {
			zap.L().Warn("Mail left in queue at shutdown", zap.Int64("count", n))
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
