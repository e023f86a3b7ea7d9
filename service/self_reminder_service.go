package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/Euroteck-developer/Reminder-App/utils"
	"go.uber.org/zap"
)

type SelfReminderService interface {
	Get(ctx context.Context, actor types.Actor, taskID int64) (*types.SelfReminder, error)
	Save(ctx context.Context, actor types.Actor, req types.SaveSelfReminderRequest) error
	// ProcessDue queues every unsent reminder due at now and marks the
	// queued ones sent. It returns how many were queued.
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}

type selfReminderService struct {
	reminders repository.SelfReminderRepo
	tasks     repository.TaskRepo
	notifier  Notifier
}

func NewSelfReminderService(reminders repository.SelfReminderRepo, tasks repository.TaskRepo, notifier Notifier) SelfReminderService {
	return &selfReminderService{
		reminders: reminders,
		tasks:     tasks,
		notifier:  notifier,
	}
}

func (s *selfReminderService) visibleTask(ctx context.Context, actor types.Actor, taskID int64) error {
	view, err := s.tasks.GetTaskView(ctx, taskID)
	if err != nil {
		return orNotFound(err, "task")
	}
	if !CanViewTask(actor, &view.Task, view.AssigneeIDs()) {
		return forbiddenError("you cannot view this task")
	}
	return nil
}

func (s *selfReminderService) Get(ctx context.Context, actor types.Actor, taskID int64) (*types.SelfReminder, error) {
	if taskID <= 0 {
		return nil, validationError("Missing taskId")
	}
	r, err := s.reminders.GetSelfReminder(ctx, taskID, actor.ID)
	if err != nil {
		return nil, orNotFound(err, "self reminder")
	}
	return r, nil
}

func (s *selfReminderService) Save(ctx context.Context, actor types.Actor, req types.SaveSelfReminderRequest) error {
	taskID := req.TaskID.Int64()
	if taskID <= 0 || req.ReminderDatetime.IsZero() {
		return validationError("Missing fields")
	}
	if err := s.visibleTask(ctx, actor, taskID); err != nil {
		return err
	}
	if err := s.reminders.SaveSelfReminder(ctx, taskID, actor.ID, req.ReminderDatetime.Time); err != nil {
		return fmt.Errorf("save self reminder: %w", err)
	}
	return nil
}

func (s *selfReminderService) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reminders.DueSelfReminders(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("due self reminders: %w", err)
	}
	queued := 0
	for _, r := range due {
		taskID := r.TaskID
		when := r.ReminderDatetime
		in := types.NotificationIntent{
			Kind:      types.IntentSelfReminder,
			Recipient: r.UserID,
			TaskID:    &taskID,
			TaskName:  utils.Truncate(r.TaskTitle, utils.IntentTextLimit),
			When:      &when,
			EmailOnly: true,
		}
		// Unqueued reminders stay unsent and are retried on the next tick.
		if err := s.notifier.Dispatch(ctx, []types.NotificationIntent{in}); err != nil {
			zap.L().Warn("self reminder not queued", zap.Int64("reminder_id", r.ID), zap.Error(err))
			continue
		}
		if err := s.reminders.MarkSent(ctx, r.ID); err != nil {
			zap.L().Error("mark self reminder sent failed", zap.Int64("reminder_id", r.ID), zap.Error(err))
			continue
		}
		queued++
	}
	return queued, nil
}
