package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
	"go.uber.org/zap"
)

// Notifier is the sink for notification intents produced by the domain
// services.
type Notifier interface {
	// Dispatch delivers every intent. Failures are logged and joined into
	// the returned error; callers decide whether they matter.
	Dispatch(ctx context.Context, intents []types.NotificationIntent) error
	ForgetTask(ctx context.Context, taskID int64)
	ForgetMeeting(ctx context.Context, meetingID int64)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, actor types.Actor) ([]types.Notification, error)
	Unopened(ctx context.Context, actor types.Actor) (*types.Notification, error)
	MarkOpened(ctx context.Context, actor types.Actor, id string) error
	MarkRead(ctx context.Context, actor types.Actor, id string) error
	Delete(ctx context.Context, actor types.Actor, id string) error
	Clear(ctx context.Context, actor types.Actor) (int64, error)
	// DeliverMissed pushes the unread feed of userID over the realtime
	// channel and marks those rows read.
	DeliverMissed(ctx context.Context, userID int64) (int, error)
}

type notificationService struct {
	repo      repository.NotificationRepo
	users     repository.UserRepo
	publisher Publisher
	queue     MailQueue
	renderer  *MailRenderer
	now       func() time.Time
}

func NewNotificationService(
	repo repository.NotificationRepo,
	users repository.UserRepo,
	publisher Publisher,
	queue MailQueue,
	renderer *MailRenderer,
) NotificationService {
	return &notificationService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		queue:     queue,
		renderer:  renderer,
		now:       time.Now,
	}
}

// RenderInApp returns the feed title, message and category of an intent.
func RenderInApp(in types.NotificationIntent) (string, string, types.NotificationType) {
	switch in.Kind {
	case types.IntentAssigned:
		return "New Task Assigned", "You have been assigned a new task: " + in.TaskName, types.NotificationTask
	case types.IntentReassigned:
		return "Task Reassigned", "You have been reassigned to task: " + in.TaskName, types.NotificationTask
	case types.IntentRemoved:
		return "Task Unassigned", "You have been removed from task: " + in.TaskName, types.NotificationTask
	case types.IntentStatusUpdate:
		msg := fmt.Sprintf("%s updated %q to %s", in.ActorName, in.TaskName, in.Status)
		if in.StatusDesc != "" {
			msg += ": " + in.StatusDesc
		}
		return "Task Status Updated", msg, types.NotificationTask
	case types.IntentTaskCreated:
		return "Task Assigned Successfully",
			fmt.Sprintf("You have assigned %q to %d user(s)", in.TaskName, in.Count),
			types.NotificationTask
	case types.IntentTaskDeleted:
		return "Task Deleted", "A task assigned to you has been deleted: " + in.TaskName, types.NotificationTask
	case types.IntentMeetingScheduled:
		return "New Meeting Scheduled", "A new meeting has been scheduled: " + in.TaskName, types.NotificationMeeting
	case types.IntentDailyReminder:
		return "Daily Task Reminder", "Reminder for your task: " + in.TaskName, types.NotificationReminder
	case types.IntentSelfReminder:
		return "Task Reminder", "This is a reminder for your task: " + in.TaskName, types.NotificationReminder
	default:
		return "Notification", in.TaskName, types.NotificationTask
	}
}

func notificationEvent(n *types.Notification) types.WebSocketResponse {
	return types.WebSocketResponse{
		Type: types.TypeWebsocketNewNotification,
		Payload: types.NotificationEvent{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			TaskID:    n.TaskID,
			MeetingID: n.MeetingID,
		},
	}
}

func (s *notificationService) Dispatch(ctx context.Context, intents []types.NotificationIntent) error {
	if len(intents) == 0 {
		return nil
	}
	// Delivery outlives the request that produced the intents.
	ctx = context.WithoutCancel(ctx)

	var errs []error
	recipients := s.mailRecipients(ctx, intents, &errs)

	for _, in := range intents {
		log := zap.L().With(zap.String("kind", string(in.Kind)), zap.Int64("recipient", in.Recipient))
		if !in.EmailOnly {
			title, message, ntype := RenderInApp(in)
			n := &types.Notification{
				UserID:    in.Recipient,
				Title:     title,
				Message:   message,
				Type:      ntype,
				TaskID:    in.TaskID,
				MeetingID: in.MeetingID,
				CreatedAt: s.now(),
			}
			if err := s.repo.InsertNotification(ctx, n); err != nil {
				log.Error("notification insert failed", zap.Error(err))
				errs = append(errs, err)
			} else {
				s.publisher.Publish(in.Recipient, notificationEvent(n))
			}
		}
		if in.InAppOnly {
			continue
		}
		user, ok := recipients[in.Recipient]
		if !ok || user.Email == "" {
			log.Warn("no email address for recipient")
			continue
		}
		msg, err := s.renderer.Render(in, user)
		if err != nil {
			log.Error("mail render failed", zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if err := s.queue.Enqueue(ctx, msg); err != nil {
			log.Error("mail enqueue failed", zap.String("to", msg.To), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *notificationService) mailRecipients(ctx context.Context, intents []types.NotificationIntent, errs *[]error) map[int64]*types.User {
	ids := make([]int64, 0, len(intents))
	seen := make(map[int64]bool, len(intents))
	for _, in := range intents {
		if in.InAppOnly || seen[in.Recipient] {
			continue
		}
		seen[in.Recipient] = true
		ids = append(ids, in.Recipient)
	}
	out := make(map[int64]*types.User, len(ids))
	if len(ids) == 0 {
		return out
	}
	users, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		zap.L().Error("load mail recipients failed", zap.Int64s("user_ids", ids), zap.Error(err))
		*errs = append(*errs, err)
		return out
	}
	for i := range users {
		if !users[i].IsDeleted {
			out[users[i].ID] = &users[i]
		}
	}
	return out
}

func (s *notificationService) ForgetTask(ctx context.Context, taskID int64) {
	n, err := s.repo.DeleteByTask(context.WithoutCancel(ctx), taskID)
	if err != nil {
		zap.L().Error("delete task notifications failed", zap.Int64("task_id", taskID), zap.Error(err))
		return
	}
	zap.L().Debug("task notifications deleted", zap.Int64("task_id", taskID), zap.Int64("count", n))
}

func (s *notificationService) ForgetMeeting(ctx context.Context, meetingID int64) {
	n, err := s.repo.DeleteByMeeting(context.WithoutCancel(ctx), meetingID)
	if err != nil {
		zap.L().Error("delete meeting notifications failed", zap.Int64("meeting_id", meetingID), zap.Error(err))
		return
	}
	zap.L().Debug("meeting notifications deleted", zap.Int64("meeting_id", meetingID), zap.Int64("count", n))
}

func (s *notificationService) List(ctx context.Context, actor types.Actor) ([]types.Notification, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// Unopened returns nil when every notification has been opened.
func (s *notificationService) Unopened(ctx context.Context, actor types.Actor) (*types.Notification, error) {
	n, err := s.repo.LatestUnopened(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return n, err
}

func (s *notificationService) MarkOpened(ctx context.Context, actor types.Actor, id string) error {
	if err := s.repo.MarkOpened(ctx, id, actor.ID); err != nil {
		return orNotFound(err, "notification")
	}
	return nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor types.Actor, id string) error {
	if err := s.repo.MarkRead(ctx, id, actor.ID, s.now()); err != nil {
		return orNotFound(err, "notification")
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, actor types.Actor, id string) error {
	if !actor.Can(types.CapManageNotifications) {
		return forbiddenError("access denied")
	}
	if err := s.repo.DeleteNotification(ctx, id); err != nil {
		return orNotFound(err, "notification")
	}
	return nil
}

func (s *notificationService) Clear(ctx context.Context, actor types.Actor) (int64, error) {
	if !actor.Can(types.CapManageNotifications) {
		return 0, forbiddenError("access denied")
	}
	return s.repo.DeleteByUser(ctx, actor.ID)
}

func (s *notificationService) DeliverMissed(ctx context.Context, userID int64) (int, error) {
	unread, err := s.repo.Unread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(unread) == 0 {
		return 0, nil
	}
	// Rows no connection took stay unread for the next join.
	ids := make([]string, 0, len(unread))
	for i := range unread {
		if s.publisher.Deliver(ctx, userID, notificationEvent(&unread[i])) == 0 {
			break
		}
		ids = append(ids, unread[i].ID)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.repo.MarkDelivered(ctx, ids); err != nil {
		return len(ids), err
	}
	return len(ids), nil
}
