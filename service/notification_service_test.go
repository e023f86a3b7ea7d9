package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
)

type notificationFixture struct {
	repo      *fakeNotificationRepo
	publisher *fakePublisher
	queue     MailQueue
	svc       *notificationService
}

func newNotificationFixture(queue MailQueue) *notificationFixture {
	if queue == nil {
		queue = NewMemoryMailQueue(16, 10*time.Millisecond)
	}
	users := testUsers()
	users.users[6] = types.User{ID: 6, Name: "Gone", Email: "gone@example.com", RoleID: types.RoleUser, IsDeleted: true}
	f := &notificationFixture{
		repo:      &fakeNotificationRepo{},
		publisher: &fakePublisher{},
		queue:     queue,
	}
	f.svc = NewNotificationService(f.repo, users, f.publisher, queue, NewMailRenderer("https://reminders.example.com")).(*notificationService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

// drain pulls every queued message without blocking.
func drain(t *testing.T, q MailQueue) []types.MailMessage {
	t.Helper()
	var out []types.MailMessage
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		msg, err := q.Dequeue(ctx)
		cancel()
		if err != nil {
			return out
		}
		out = append(out, msg)
	}
}

func taskIntent(kind types.IntentKind, recipient int64) types.NotificationIntent {
	taskID := int64(7)
	return types.NotificationIntent{
		Kind:      kind,
		Recipient: recipient,
		TaskID:    &taskID,
		TaskName:  "Prepare the quarterly vendor report",
		ActorName: "Manoj",
		Priority:  types.PriorityHigh,
	}
}

func TestDispatchDeliversEveryChannel(t *testing.T) {
	f := newNotificationFixture(nil)

	err := f.svc.Dispatch(context.Background(), []types.NotificationIntent{
		taskIntent(types.IntentAssigned, 3),
		taskIntent(types.IntentRemoved, 1),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(f.repo.rows) != 2 {
		t.Fatalf("stored %d notifications, want 2", len(f.repo.rows))
	}
	first := f.repo.rows[0]
	if first.UserID != 3 || first.Title != "New Task Assigned" || first.Type != types.NotificationTask || first.IsRead {
		t.Errorf("stored notification = %+v", first)
	}
	if first.TaskID == nil || *first.TaskID != 7 || !first.CreatedAt.Equal(fixedNow) {
		t.Errorf("notification references = %+v", first)
	}

	if len(f.publisher.sent) != 2 {
		t.Fatalf("published %d events, want 2", len(f.publisher.sent))
	}
	ev := f.publisher.sent[0]
	payload, ok := ev.msg.Payload.(types.NotificationEvent)
	if ev.userID != 3 || ev.msg.Type != types.TypeWebsocketNewNotification || !ok || payload.ID != first.ID {
		t.Errorf("event = %+v", ev)
	}

	mails := drain(t, f.queue)
	if len(mails) != 2 {
		t.Fatalf("queued %d mails, want 2", len(mails))
	}
	if mails[0].To != "chitra@example.com" || mails[0].Subject != "New Task Assigned" {
		t.Errorf("first mail = %s %q", mails[0].To, mails[0].Subject)
	}
	if mails[1].To != "asha@example.com" || mails[1].Subject != "Task Unassigned" {
		t.Errorf("second mail = %s %q", mails[1].To, mails[1].Subject)
	}
}

func TestDispatchChannelFlags(t *testing.T) {
	f := newNotificationFixture(nil)
	emailOnly := taskIntent(types.IntentTaskDeleted, 1)
	emailOnly.EmailOnly = true
	inApp := taskIntent(types.IntentTaskCreated, 10)
	inApp.InAppOnly = true
	inApp.Count = 2

	if err := f.svc.Dispatch(context.Background(), []types.NotificationIntent{emailOnly, inApp}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(f.repo.rows) != 1 || f.repo.rows[0].UserID != 10 {
		t.Fatalf("stored = %+v", f.repo.rows)
	}
	if !strings.Contains(f.repo.rows[0].Message, "2 user(s)") {
		t.Errorf("confirmation message = %q", f.repo.rows[0].Message)
	}
	mails := drain(t, f.queue)
	if len(mails) != 1 || mails[0].To != "asha@example.com" || mails[0].Subject != "Task Deleted" {
		t.Fatalf("mails = %+v", mails)
	}
}

func TestDispatchSkipsDeletedRecipients(t *testing.T) {
	f := newNotificationFixture(nil)
	if err := f.svc.Dispatch(context.Background(), []types.NotificationIntent{taskIntent(types.IntentAssigned, 6)}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if mails := drain(t, f.queue); len(mails) != 0 {
		t.Errorf("mailed a deleted user: %+v", mails)
	}
}

func TestDispatchQueueFull(t *testing.T) {
	f := newNotificationFixture(NewMemoryMailQueue(1, 5*time.Millisecond))
	err := f.svc.Dispatch(context.Background(), []types.NotificationIntent{
		taskIntent(types.IntentAssigned, 1),
		taskIntent(types.IntentAssigned, 2),
	})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
	// The in-app feed still gets both rows.
	if len(f.repo.rows) != 2 {
		t.Errorf("stored %d notifications, want 2", len(f.repo.rows))
	}
}

func TestDispatchKeepsGoingAfterInsertFailure(t *testing.T) {
	f := newNotificationFixture(nil)
	f.repo.insertErr = errors.New("mongo unavailable")
	err := f.svc.Dispatch(context.Background(), []types.NotificationIntent{taskIntent(types.IntentAssigned, 1)})
	if err == nil {
		t.Fatal("expected the insert failure to be reported")
	}
	if len(f.publisher.sent) != 0 {
		t.Errorf("published %d events without a stored row", len(f.publisher.sent))
	}
	if mails := drain(t, f.queue); len(mails) != 1 {
		t.Errorf("queued %d mails, want 1", len(mails))
	}
}

func TestDispatchIgnoresCancelledRequest(t *testing.T) {
	f := newNotificationFixture(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := f.svc.Dispatch(ctx, []types.NotificationIntent{taskIntent(types.IntentAssigned, 1)}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if mails := drain(t, f.queue); len(mails) != 1 {
		t.Errorf("queued %d mails, want 1", len(mails))
	}
}

func TestNotificationFeed(t *testing.T) {
	f := newNotificationFixture(nil)
	ctx := context.Background()
	_ = f.svc.Dispatch(ctx, []types.NotificationIntent{
		taskIntent(types.IntentAssigned, 2),
		taskIntent(types.IntentStatusUpdate, 2),
		taskIntent(types.IntentAssigned, 3),
	})

	list, err := f.svc.List(ctx, worker2)
	if err != nil || len(list) != 2 {
		t.Fatalf("List = %d rows, %v", len(list), err)
	}
	latest, err := f.svc.Unopened(ctx, worker2)
	if err != nil || latest == nil || latest.Title != "Task Status Updated" {
		t.Fatalf("Unopened = %+v, %v", latest, err)
	}

	for _, n := range list {
		if err := f.svc.MarkOpened(ctx, worker2, n.ID); err != nil {
			t.Fatalf("MarkOpened: %v", err)
		}
	}
	latest, err = f.svc.Unopened(ctx, worker2)
	if err != nil || latest != nil {
		t.Fatalf("Unopened after opening all = %+v, %v", latest, err)
	}

	if err := f.svc.MarkRead(ctx, worker2, list[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	err = f.svc.MarkRead(ctx, worker3, list[1].ID)
	wantKind(t, err, ErrNotFound)
}

func TestNotificationDeletePermissions(t *testing.T) {
	f := newNotificationFixture(nil)
	ctx := context.Background()
	_ = f.svc.Dispatch(ctx, []types.NotificationIntent{
		taskIntent(types.IntentAssigned, 2),
		taskIntent(types.IntentAssigned, 10),
		taskIntent(types.IntentStatusUpdate, 10),
	})

	err := f.svc.Delete(ctx, worker2, f.repo.rows[0].ID)
	wantKind(t, err, ErrForbidden)
	_, err = f.svc.Clear(ctx, worker2)
	wantKind(t, err, ErrForbidden)

	if err := f.svc.Delete(ctx, manager, f.repo.rows[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	wantKind(t, f.svc.Delete(ctx, manager, "missing"), ErrNotFound)

	n, err := f.svc.Clear(ctx, manager)
	if err != nil || n != 2 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if len(f.repo.rows) != 0 {
		t.Errorf("rows left = %+v", f.repo.rows)
	}
}

func TestDeliverMissed(t *testing.T) {
	f := newNotificationFixture(nil)
	ctx := context.Background()
	_ = f.svc.Dispatch(ctx, []types.NotificationIntent{
		taskIntent(types.IntentAssigned, 2),
		taskIntent(types.IntentStatusUpdate, 2),
	})
	f.publisher.sent = nil

	n, err := f.svc.DeliverMissed(ctx, 2)
	if err != nil || n != 2 {
		t.Fatalf("DeliverMissed = %d, %v", n, err)
	}
	if len(f.publisher.sent) != 2 || len(f.repo.delivered) != 2 {
		t.Fatalf("published %d, delivered %v", len(f.publisher.sent), f.repo.delivered)
	}
	for _, row := range f.repo.rows {
		if !row.IsRead || row.ReadByUser {
			t.Errorf("row %s: is_read=%v read_by_user=%v", row.ID, row.IsRead, row.ReadByUser)
		}
	}

	n, err = f.svc.DeliverMissed(ctx, 2)
	if err != nil || n != 0 {
		t.Fatalf("second DeliverMissed = %d, %v", n, err)
	}
}

func TestDeliverMissedKeepsUndeliveredRowsUnread(t *testing.T) {
	f := newNotificationFixture(nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = f.svc.Dispatch(ctx, []types.NotificationIntent{taskIntent(types.IntentStatusUpdate, 2)})
	}
	f.publisher.sent = nil
	f.publisher.offlineAfter = 3

	n, err := f.svc.DeliverMissed(ctx, 2)
	if err != nil || n != 3 {
		t.Fatalf("DeliverMissed = %d, %v, want 3", n, err)
	}
	if len(f.repo.delivered) != 3 {
		t.Fatalf("marked %d rows delivered, want 3", len(f.repo.delivered))
	}
	unread, err := f.repo.Unread(ctx, 2)
	if err != nil || len(unread) != 2 {
		t.Fatalf("unread after partial delivery = %d, %v", len(unread), err)
	}

	f.publisher.sent = nil
	f.publisher.offlineAfter = 0
	if n, err := f.svc.DeliverMissed(ctx, 2); err != nil || n != 2 {
		t.Fatalf("next join delivered %d, %v, want 2", n, err)
	}
}

func TestForgetTaskAndMeeting(t *testing.T) {
	f := newNotificationFixture(nil)
	ctx := context.Background()
	meetingID := int64(3)
	_ = f.svc.Dispatch(ctx, []types.NotificationIntent{
		taskIntent(types.IntentAssigned, 2),
		{Kind: types.IntentMeetingScheduled, Recipient: 2, MeetingID: &meetingID, TaskName: "Sync"},
	})
	f.svc.ForgetTask(ctx, 7)
	if len(f.repo.rows) != 1 || f.repo.rows[0].MeetingID == nil {
		t.Fatalf("rows after ForgetTask = %+v", f.repo.rows)
	}
	f.svc.ForgetMeeting(ctx, meetingID)
	if len(f.repo.rows) != 0 {
		t.Fatalf("rows after ForgetMeeting = %+v", f.repo.rows)
	}
}

func TestRenderInApp(t *testing.T) {
	tests := []struct {
		kind  types.IntentKind
		title string
		ntype types.NotificationType
	}{
		{types.IntentAssigned, "New Task Assigned", types.NotificationTask},
		{types.IntentReassigned, "Task Reassigned", types.NotificationTask},
		{types.IntentRemoved, "Task Unassigned", types.NotificationTask},
		{types.IntentStatusUpdate, "Task Status Updated", types.NotificationTask},
		{types.IntentMeetingScheduled, "New Meeting Scheduled", types.NotificationMeeting},
		{types.IntentSelfReminder, "Task Reminder", types.NotificationReminder},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			title, msg, ntype := RenderInApp(taskIntent(tt.kind, 1))
			if title != tt.title || ntype != tt.ntype {
				t.Errorf("got %q %s, want %q %s", title, ntype, tt.title, tt.ntype)
			}
			if !strings.Contains(msg, "Prepare the quarterly vendor report") {
				t.Errorf("message %q does not name the task", msg)
			}
		})
	}

	in := taskIntent(types.IntentStatusUpdate, 10)
	in.Status = types.StatusCompleted
	in.StatusDesc = "sent to finance"
	_, msg, _ := RenderInApp(in)
	if !strings.Contains(msg, "Completed") || !strings.HasSuffix(msg, ": sent to finance") {
		t.Errorf("status message = %q", msg)
	}
}
