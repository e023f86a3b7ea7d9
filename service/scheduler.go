package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type SchedulerConfig struct {
	DailySchedule string
	RoundInterval time.Duration
	SelfSchedule  string
}

// Scheduler runs the daily round-robin reminders and the self reminder
// sweep on cron schedules.
type Scheduler struct {
	cfg      SchedulerConfig
	cron     *cron.Cron
	tasks    repository.TaskRepo
	selfRem  SelfReminderService
	notifier Notifier
}

func NewScheduler(cfg SchedulerConfig, tasks repository.TaskRepo, selfRem SelfReminderService, notifier Notifier) *Scheduler {
	logger := cron.PrintfLogger(zap.NewStdLog(zap.L().Named("cron")))
	return &Scheduler{
		cfg: cfg,
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		tasks:    tasks,
		selfRem:  selfRem,
		notifier: notifier,
	}
}

// Start registers the jobs and starts the cron loop. Jobs stop when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.DailySchedule, func() {
		if err := s.RunDailyReminders(ctx); err != nil && ctx.Err() == nil {
			zap.L().Error("daily reminders failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("daily schedule %q: %w", s.cfg.DailySchedule, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.SelfSchedule, func() {
		n, err := s.selfRem.ProcessDue(ctx, time.Now())
		if err != nil {
			zap.L().Error("self reminders failed", zap.Error(err))
			return
		}
		if n > 0 {
			zap.L().Info("self reminders queued", zap.Int("count", n))
		}
	}); err != nil {
		return fmt.Errorf("self reminder schedule %q: %w", s.cfg.SelfSchedule, err)
	}
	s.cron.Start()
	return nil
}

// Stop stops scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// PlanReminderRounds groups active assignments by user. Round r holds the
// r-th task of every user that has at least r+1 tasks. Users keep the order
// of their first row, tasks keep row order.
func PlanReminderRounds(rows []types.ReminderTask) [][]types.ReminderTask {
	var order []int64
	byUser := make(map[int64][]types.ReminderTask)
	for _, row := range rows {
		if _, ok := byUser[row.UserID]; !ok {
			order = append(order, row.UserID)
		}
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}
	maxTasks := 0
	for _, tasks := range byUser {
		maxTasks = max(maxTasks, len(tasks))
	}
	rounds := make([][]types.ReminderTask, maxTasks)
	for r := range rounds {
		for _, uid := range order {
			if tasks := byUser[uid]; r < len(tasks) {
				rounds[r] = append(rounds[r], tasks[r])
			}
		}
	}
	return rounds
}

func reminderIntent(row types.ReminderTask, round int) types.NotificationIntent {
	taskID := row.TaskID
	due := row.DueDate
	if row.ExtendedDueDate != nil {
		due = *row.ExtendedDueDate
	}
	return types.NotificationIntent{
		Kind:      types.IntentDailyReminder,
		Recipient: row.UserID,
		TaskID:    &taskID,
		TaskName:  row.TaskName,
		ActorName: row.CreatedByName,
		Status:    row.Status,
		When:      &due,
		Round:     round,
		EmailOnly: true,
	}
}

// RunDailyReminders sends one round of reminders per RoundInterval until
// every user received a mail for each of their active tasks.
func (s *Scheduler) RunDailyReminders(ctx context.Context) error {
	rows, err := s.tasks.ActiveAssignments(ctx)
	if err != nil {
		return fmt.Errorf("active assignments: %w", err)
	}
	rounds := PlanReminderRounds(rows)
	if len(rounds) == 0 {
		zap.L().Info("no assignees found for active tasks")
		return nil
	}
	zap.L().Info("daily reminders planned", zap.Int("rows", len(rows)), zap.Int("rounds", len(rounds)))

	for r, batch := range rounds {
		if r > 0 {
			select {
			case <-time.After(s.cfg.RoundInterval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		intents := make([]types.NotificationIntent, 0, len(batch))
		for _, row := range batch {
			intents = append(intents, reminderIntent(row, r+1))
		}
		if err := s.notifier.Dispatch(ctx, intents); err != nil {
			zap.L().Warn("reminder round partially failed", zap.Int("round", r+1), zap.Error(err))
		}
	}
	return nil
}
