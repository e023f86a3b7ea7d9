package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
)

// fakeUsers is an in-memory user directory.
type fakeUsers struct {
	users map[int64]types.User
}

func newFakeUsers(users ...types.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]types.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (*types.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetUsers(_ context.Context, ids []int64) ([]types.User, error) {
	var out []types.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListActiveUsers(_ context.Context) ([]types.User, error) {
	var out []types.User
	for _, u := range f.users {
		if !u.IsDeleted {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b types.User) int { return int(a.ID - b.ID) })
	return out, nil
}

func (f *fakeUsers) UsersInDepartments(_ context.Context, deptIDs []int64) ([]types.User, error) {
	var out []types.User
	for _, u := range f.users {
		if u.DeptID != nil && slices.Contains(deptIDs, *u.DeptID) && !u.IsDeleted {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b types.User) int { return int(a.ID - b.ID) })
	return out, nil
}

// fakeTaskStore implements repository.TaskRepo. WithTaskLock holds a mutex
// and rolls the state back when the callback fails.
type fakeTaskStore struct {
	lock sync.Mutex
	mu   sync.Mutex

	users     *fakeUsers
	tasks     map[int64]*types.Task
	assignees map[int64][]int64
	history   []types.HistoryEntry
	touched   map[[2]int64]time.Time
	active    []types.ReminderTask
	nextTask  int64
	nextHist  int64
	deleted   []int64
}

func newFakeTaskStore(users *fakeUsers) *fakeTaskStore {
	return &fakeTaskStore{
		users:     users,
		tasks:     make(map[int64]*types.Task),
		assignees: make(map[int64][]int64),
		touched:   make(map[[2]int64]time.Time),
		nextTask:  100,
	}
}

// seed stores a task with its current assignees.
func (f *fakeTaskStore) seed(task types.Task, assignees ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := task
	f.tasks[t.ID] = &t
	f.assignees[t.ID] = slices.Clone(assignees)
}

func (f *fakeTaskStore) seedHistory(rows ...types.HistoryEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		f.nextHist++
		r.ID = f.nextHist
		f.history = append(f.history, r)
	}
}

func (f *fakeTaskStore) historyRows() []types.HistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.history)
}

func (f *fakeTaskStore) currentAssignees(taskID int64) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.assignees[taskID])
}

func (f *fakeTaskStore) task(id int64) types.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.tasks[id]
}

func (f *fakeTaskStore) CreateTask(_ context.Context, task *types.Task, assignees []types.TaskAssignee, history []types.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTask++
	task.ID = f.nextTask
	t := *task
	f.tasks[t.ID] = &t
	for i := range assignees {
		assignees[i].TaskID = t.ID
		f.assignees[t.ID] = append(f.assignees[t.ID], assignees[i].UserID)
	}
	for i := range history {
		f.nextHist++
		history[i].TaskID = t.ID
		history[i].ID = f.nextHist
		f.history = append(f.history, history[i])
	}
	return nil
}

func (f *fakeTaskStore) view(t types.Task) types.TaskView {
	v := types.TaskView{Task: t, Users: []types.UserRef{}}
	if u, ok := f.users.users[t.CreatedBy]; ok {
		v.CreatedByUser = u.Ref()
	}
	for _, id := range f.assignees[t.ID] {
		u := f.users.users[id]
		v.Users = append(v.Users, types.UserRef{ID: id, Name: u.Name, Email: u.Email})
	}
	return v
}

func (f *fakeTaskStore) GetTaskView(_ context.Context, id int64) (*types.TaskView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := f.view(*t)
	return &v, nil
}

func (f *fakeTaskStore) ListTasks(_ context.Context, scope types.TaskScope) ([]types.TaskView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []types.TaskView{}
	for _, t := range f.tasks {
		if scope.All || t.CreatedBy == scope.UserID || slices.Contains(f.assignees[t.ID], scope.UserID) {
			out = append(out, f.view(*t))
		}
	}
	slices.SortFunc(out, func(a, b types.TaskView) int { return int(a.ID - b.ID) })
	return out, nil
}

func (f *fakeTaskStore) PreviouslyAssigned(_ context.Context, taskID int64) ([]types.UserRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.UserRef
	seen := map[int64]bool{}
	for _, h := range f.history {
		if h.TaskID != taskID || seen[h.UserID] || slices.Contains(f.assignees[taskID], h.UserID) {
			continue
		}
		seen[h.UserID] = true
		out = append(out, types.UserRef{ID: h.UserID, Name: f.users.users[h.UserID].Name})
	}
	return out, nil
}

func (f *fakeTaskStore) UserHistory(_ context.Context, userID int64) ([]types.HistoryView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.HistoryView
	for i := len(f.history) - 1; i >= 0; i-- {
		h := f.history[i]
		if h.UserID == userID || h.ChangedBy == userID {
			out = append(out, types.HistoryView{HistoryEntry: h})
		}
	}
	return out, nil
}

func (f *fakeTaskStore) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tasks, id)
	delete(f.assignees, id)
	f.history = slices.DeleteFunc(f.history, func(h types.HistoryEntry) bool { return h.TaskID == id })
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTaskStore) ActiveAssignments(_ context.Context) ([]types.ReminderTask, error) {
	return f.active, nil
}

func (f *fakeTaskStore) WithTaskLock(_ context.Context, taskID int64, fn func(tx repository.TaskTx, task *types.Task) error) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.mu.Lock()
	stored, ok := f.tasks[taskID]
	if !ok {
		f.mu.Unlock()
		return repository.ErrNotFound
	}
	task := *stored
	savedAssignees := slices.Clone(f.assignees[taskID])
	savedHistory := len(f.history)
	f.mu.Unlock()

	if err := fn(&fakeTaskTx{store: f}, &task); err != nil {
		f.mu.Lock()
		f.assignees[taskID] = savedAssignees
		f.history = f.history[:savedHistory]
		f.mu.Unlock()
		return err
	}
	return nil
}

type fakeTaskTx struct {
	store *fakeTaskStore
}

func (t *fakeTaskTx) AssigneeIDs(taskID int64) ([]int64, error) {
	return t.store.currentAssignees(taskID), nil
}

func (t *fakeTaskTx) LatestHistory(taskID int64, userIDs []int64) (map[int64]types.HistoryStatus, error) {
	latest := make(map[int64]types.HistoryStatus)
	for _, h := range t.store.historyRows() {
		if h.TaskID == taskID && slices.Contains(userIDs, h.UserID) {
			latest[h.UserID] = h.Status
		}
	}
	return latest, nil
}

func (t *fakeTaskTx) SaveTask(task *types.Task) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	saved := *task
	t.store.tasks[task.ID] = &saved
	return nil
}

func (t *fakeTaskTx) RemoveAssignees(taskID int64, userIDs []int64) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.assignees[taskID] = slices.DeleteFunc(t.store.assignees[taskID], func(id int64) bool {
		return slices.Contains(userIDs, id)
	})
	return nil
}

func (t *fakeTaskTx) AddAssignees(rows []types.TaskAssignee) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, r := range rows {
		t.store.assignees[r.TaskID] = append(t.store.assignees[r.TaskID], r.UserID)
	}
	return nil
}

func (t *fakeTaskTx) InsertHistory(rows []types.HistoryEntry) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := range rows {
		t.store.nextHist++
		rows[i].ID = t.store.nextHist
		t.store.history = append(t.store.history, rows[i])
	}
	return nil
}

func (t *fakeTaskTx) TouchAssignee(taskID, userID int64, at time.Time) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.touched[[2]int64{taskID, userID}] = at
	return nil
}

// fakeNotifier records everything the domain services ask it to deliver.
type fakeNotifier struct {
	mu             sync.Mutex
	intents        []types.NotificationIntent
	forgotTasks    []int64
	forgotMeetings []int64
	err            error
}

func (f *fakeNotifier) Dispatch(_ context.Context, intents []types.NotificationIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents = append(f.intents, intents...)
	return f.err
}

func (f *fakeNotifier) ForgetTask(_ context.Context, taskID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotTasks = append(f.forgotTasks, taskID)
}

func (f *fakeNotifier) ForgetMeeting(_ context.Context, meetingID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotMeetings = append(f.forgotMeetings, meetingID)
}

func (f *fakeNotifier) sent() []types.NotificationIntent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.intents)
}

// fakeNotificationRepo is an in-memory notification feed.
type fakeNotificationRepo struct {
	mu        sync.Mutex
	rows      []types.Notification
	next      int
	delivered []string
	insertErr error
}

func (f *fakeNotificationRepo) InsertNotification(_ context.Context, n *types.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.next++
	n.ID = fmt.Sprintf("n%d", f.next)
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID int64) ([]types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []types.Notification{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) LatestUnopened(_ context.Context, userID int64) (*types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID && !f.rows[i].OpenedByUser {
			n := f.rows[i]
			return &n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeNotificationRepo) Unread(_ context.Context, userID int64) ([]types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Notification
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) update(id string, userID int64, fn func(n *types.Notification)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			fn(&f.rows[i])
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeNotificationRepo) MarkOpened(_ context.Context, id string, userID int64) error {
	return f.update(id, userID, func(n *types.Notification) { n.OpenedByUser = true })
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string, userID int64, at time.Time) error {
	return f.update(id, userID, func(n *types.Notification) {
		n.IsRead = true
		n.ReadByUser = true
		n.ReadAt = &at
	})
}

func (f *fakeNotificationRepo) MarkDelivered(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, ids...)
	for i := range f.rows {
		if slices.Contains(ids, f.rows[i].ID) {
			f.rows[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteNotification(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.rows)
	f.rows = slices.DeleteFunc(f.rows, func(n types.Notification) bool { return n.ID == id })
	if len(f.rows) == before {
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeNotificationRepo) deleteWhere(match func(n types.Notification) bool) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.rows)
	f.rows = slices.DeleteFunc(f.rows, match)
	return int64(before - len(f.rows))
}

func (f *fakeNotificationRepo) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	return f.deleteWhere(func(n types.Notification) bool { return n.UserID == userID }), nil
}

func (f *fakeNotificationRepo) DeleteByTask(_ context.Context, taskID int64) (int64, error) {
	return f.deleteWhere(func(n types.Notification) bool { return n.TaskID != nil && *n.TaskID == taskID }), nil
}

func (f *fakeNotificationRepo) DeleteByMeeting(_ context.Context, meetingID int64) (int64, error) {
	return f.deleteWhere(func(n types.Notification) bool { return n.MeetingID != nil && *n.MeetingID == meetingID }), nil
}

type published struct {
	userID int64
	msg    types.WebSocketResponse
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	// offlineAfter makes Deliver report no connection once that many
	// messages were sent. Zero means always connected.
	offlineAfter int
}

func (f *fakePublisher) Publish(userID int64, msg types.WebSocketResponse) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, published{userID, msg})
	return 1
}

func (f *fakePublisher) Deliver(_ context.Context, userID int64, msg types.WebSocketResponse) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offlineAfter > 0 && len(f.sent) >= f.offlineAfter {
		return 0
	}
	f.sent = append(f.sent, published{userID, msg})
	return 1
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []types.MailMessage
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg types.MailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeMeetings is an in-memory meeting store.
type fakeMeetings struct {
	meetings  map[int64]*types.Meeting
	assignees map[int64][]types.MeetingAssignee
	depts     map[int64][]types.MeetingDepartment
	next      int64
}

func newFakeMeetings() *fakeMeetings {
	return &fakeMeetings{
		meetings:  make(map[int64]*types.Meeting),
		assignees: make(map[int64][]types.MeetingAssignee),
		depts:     make(map[int64][]types.MeetingDepartment),
	}
}

func (f *fakeMeetings) CreateMeeting(_ context.Context, m *types.Meeting, assignees []types.MeetingAssignee, depts []types.MeetingDepartment) error {
	f.next++
	m.ID = f.next
	stored := *m
	f.meetings[m.ID] = &stored
	for i := range assignees {
		assignees[i].MeetingID = m.ID
	}
	for i := range depts {
		depts[i].MeetingID = m.ID
	}
	f.assignees[m.ID] = slices.Clone(assignees)
	f.depts[m.ID] = slices.Clone(depts)
	return nil
}

func (f *fakeMeetings) GetMeeting(_ context.Context, id int64) (*types.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (f *fakeMeetings) ListMeetings(_ context.Context, scope types.MeetingScope) ([]types.MeetingView, error) {
	out := []types.MeetingView{}
	for id, m := range f.meetings {
		invited := slices.ContainsFunc(f.assignees[id], func(a types.MeetingAssignee) bool { return a.UserID == scope.UserID })
		if scope.All || m.CreatedBy == scope.UserID || invited {
			out = append(out, types.MeetingView{Meeting: *m})
		}
	}
	return out, nil
}

func (f *fakeMeetings) UpdateStatus(_ context.Context, id int64, status types.MeetingStatus) error {
	f.meetings[id].Status = status
	return nil
}

func (f *fakeMeetings) DeleteMeeting(_ context.Context, id int64) error {
	if _, ok := f.meetings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.meetings, id)
	delete(f.assignees, id)
	delete(f.depts, id)
	return nil
}

type fakeSelfReminders struct {
	saved map[[2]int64]types.SelfReminder
	due   []types.DueSelfReminder
	sent  []int64
}

func newFakeSelfReminders() *fakeSelfReminders {
	return &fakeSelfReminders{saved: make(map[[2]int64]types.SelfReminder)}
}

func (f *fakeSelfReminders) GetSelfReminder(_ context.Context, taskID, userID int64) (*types.SelfReminder, error) {
	r, ok := f.saved[[2]int64{taskID, userID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeSelfReminders) SaveSelfReminder(_ context.Context, taskID, userID int64, at time.Time) error {
	f.saved[[2]int64{taskID, userID}] = types.SelfReminder{TaskID: taskID, UserID: userID, ReminderDatetime: at}
	return nil
}

func (f *fakeSelfReminders) DueSelfReminders(_ context.Context, now time.Time) ([]types.DueSelfReminder, error) {
	var out []types.DueSelfReminder
	for _, r := range f.due {
		if !r.ReminderDatetime.After(now) && !slices.Contains(f.sent, r.ID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSelfReminders) MarkSent(_ context.Context, id int64) error {
	f.sent = append(f.sent, id)
	return nil
}
