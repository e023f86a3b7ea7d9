package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/Euroteck-developer/Reminder-App/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService interface {
	CreateTask(ctx context.Context, actor types.Actor, req types.CreateTaskRequest) (*types.CreateTaskResponse, error)
	ListTasks(ctx context.Context, actor types.Actor) ([]types.TaskView, error)
	GetTask(ctx context.Context, actor types.Actor, id int64) (*types.TaskView, error)
	// UpdateTask applies status fields and reconciles the assignee set in
	// one locked transaction. Notifications go out after commit.
	UpdateTask(ctx context.Context, actor types.Actor, req types.UpdateTaskRequest) (*types.UpdateTaskResponse, error)
	AppendHistory(ctx context.Context, actor types.Actor, taskID int64, req types.AppendHistoryRequest) (*types.HistoryEntry, error)
	UserHistory(ctx context.Context, actor types.Actor) ([]types.HistoryView, error)
	DeleteTask(ctx context.Context, actor types.Actor, id int64) error
}

type taskService struct {
	tasks    repository.TaskRepo
	users    repository.UserRepo
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

func NewTaskService(tasks repository.TaskRepo, users repository.UserRepo, notifier Notifier) TaskService {
	return &taskService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *taskService) dispatch(ctx context.Context, intents []types.NotificationIntent) {
	if err := s.notifier.Dispatch(ctx, intents); err != nil {
		zap.L().Warn("task notifications partially failed", zap.Error(err))
	}
}

// actorName is the display name used in notifications.
func (s *taskService) actorName(ctx context.Context, actor types.Actor) string {
	u, err := s.users.GetUser(ctx, actor.ID)
	if err != nil {
		return actor.Email
	}
	return u.Name
}

// checkAssignable loads ids and verifies actor may assign each of them.
func (s *taskService) checkAssignable(ctx context.Context, actor types.Actor, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		return fmt.Errorf("load assignees: %w", err)
	}
	byID := make(map[int64]*types.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok || u.IsDeleted {
			return validationError("unknown user %d", id)
		}
		if !CanAssign(actor, u) {
			return forbiddenError("you cannot assign tasks to %s", u.Name)
		}
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *taskService) CreateTask(ctx context.Context, actor types.Actor, req types.CreateTaskRequest) (*types.CreateTaskResponse, error) {
	description := strings.TrimSpace(req.Description)
	assignees := dedupe(req.Users)
	if description == "" || len(assignees) == 0 || req.DueDate.IsZero() {
		return nil, validationError("Missing required fields")
	}
	now := s.now()
	assigned := req.AssignedDate.Time
	if assigned.IsZero() {
		assigned = now
	}
	if req.DueDate.Before(assigned) {
		return nil, validationError("due date must not be before the assigned date")
	}
	priority := req.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	if !priority.Valid() {
		return nil, validationError("invalid priority %q", req.Priority)
	}
	if err := s.checkAssignable(ctx, actor, assignees); err != nil {
		return nil, err
	}

	task := &types.Task{
		Description:  description,
		Priority:     priority,
		AssignedDate: assigned,
		DueDate:      req.DueDate.Time,
		Status:       types.StatusPending,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
	}
	delta := types.AssignmentDelta{Added: assignees}
	pass := Pass{Actor: actor.ID, At: now, ChangeID: s.newID()}
	rows := AssigneeRows(delta, pass)
	history := HistoryEntries(delta, pass)
	if err := s.tasks.CreateTask(ctx, task, rows, history); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	due := task.DueDate
	meta := TaskMeta{
		TaskID:    task.ID,
		TaskName:  utils.Truncate(description, utils.IntentTextLimit),
		ActorName: s.actorName(ctx, actor),
		Priority:  priority,
		Due:       &due,
	}
	intents := ReconcileIntents(delta, meta)
	confirm := meta.intent(types.IntentTaskCreated, actor.ID)
	confirm.Count = len(assignees)
	confirm.InAppOnly = true
	intents = append(intents, confirm)
	s.dispatch(ctx, intents)

	return &types.CreateTaskResponse{TaskID: task.ID}, nil
}

func (s *taskService) ListTasks(ctx context.Context, actor types.Actor) ([]types.TaskView, error) {
	return s.tasks.ListTasks(ctx, TaskScopeFor(actor))
}

func (s *taskService) GetTask(ctx context.Context, actor types.Actor, id int64) (*types.TaskView, error) {
	view, err := s.tasks.GetTaskView(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "task")
	}
	if !CanViewTask(actor, &view.Task, view.AssigneeIDs()) {
		return nil, forbiddenError("you cannot view this task")
	}
	previous, err := s.tasks.PreviouslyAssigned(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load previous assignees: %w", err)
	}
	view.PreviouslyAssigned = previous
	return view, nil
}

func sameTime(a *time.Time, b time.Time) bool {
	if a == nil {
		return b.IsZero()
	}
	return a.Equal(b)
}

func (s *taskService) UpdateTask(ctx context.Context, actor types.Actor, req types.UpdateTaskRequest) (*types.UpdateTaskResponse, error) {
	taskID := req.TaskID.Int64()
	if taskID <= 0 {
		return nil, validationError("Missing taskId")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, validationError("invalid status %q", *req.Status)
	}
	var next []int64
	if req.AssignedTo != nil {
		next = dedupe(*req.AssignedTo)
		if len(next) == 0 {
			return nil, validationError("assignedTo must not be empty")
		}
	}
	manager := actor.Can(types.CapManageTasks)

	var (
		delta         types.AssignmentDelta
		statusChanged bool
		changed       bool
		snapshot      types.Task
	)
	err := s.tasks.WithTaskLock(ctx, taskID, func(tx repository.TaskTx, task *types.Task) error {
		current, err := tx.AssigneeIDs(taskID)
		if err != nil {
			return err
		}
		if !manager && task.CreatedBy != actor.ID && !slices.Contains(current, actor.ID) {
			return forbiddenError("You are not assigned to this task")
		}

		if req.Status != nil && *req.Status != task.Status {
			managerOnly, ok := types.Transition(task.Status, *req.Status)
			if !ok {
				return validationError("cannot move a task from %s to %s", task.Status, *req.Status)
			}
			if managerOnly && !manager {
				return forbiddenError("only managers can move a task from %s to %s", task.Status, *req.Status)
			}
			task.Status = *req.Status
			statusChanged = true
		}
		if req.StatusDesc != nil && *req.StatusDesc != task.StatusDesc {
			task.StatusDesc = *req.StatusDesc
			statusChanged = true
		}
		// Edit forms send the stored value back, so only a real change is checked.
		if req.ExtendedDue != nil && !sameTime(task.ExtendedDueDate, req.ExtendedDue.Time) {
			if !manager {
				return forbiddenError("only managers can extend the due date")
			}
			if req.ExtendedDue.IsZero() {
				task.ExtendedDueDate = nil
			} else {
				extended := req.ExtendedDue.Time
				task.ExtendedDueDate = &extended
			}
			changed = true
		}

		if next != nil {
			toAdd, _, toRemove := DiffAssignees(current, next)
			if len(toAdd) > 0 || len(toRemove) > 0 {
				if !manager {
					return forbiddenError("only managers can change assignees")
				}
				if err := s.checkAssignable(ctx, actor, toAdd); err != nil {
					return err
				}
				// Classification reads history before any write of this pass.
				latest, err := tx.LatestHistory(taskID, toAdd)
				if err != nil {
					return err
				}
				delta = Reconcile(current, next, latest)
			}
		}

		if !statusChanged && !changed && delta.Empty() {
			return nil
		}
		now := s.now()
		if !delta.Empty() {
			pass := Pass{TaskID: taskID, Actor: actor.ID, At: now, ChangeID: s.newID()}
			if err := tx.RemoveAssignees(taskID, delta.Removed); err != nil {
				return err
			}
			if err := tx.AddAssignees(AssigneeRows(delta, pass)); err != nil {
				return err
			}
			if err := tx.InsertHistory(HistoryEntries(delta, pass)); err != nil {
				return err
			}
		}
		actorID := actor.ID
		task.LastUpdated = &now
		task.LastUpdatedBy = &actorID
		if err := tx.SaveTask(task); err != nil {
			return err
		}
		snapshot = *task
		return nil
	})
	if err != nil {
		var serr *Error
		if errors.As(err, &serr) {
			return nil, err
		}
		return nil, orNotFound(err, "task")
	}

	view, err := s.tasks.GetTaskView(ctx, taskID)
	if err != nil {
		return nil, orNotFound(err, "task")
	}
	resp := &types.UpdateTaskResponse{Task: view}
	if delta.Empty() && !statusChanged {
		return resp, nil
	}
	if !delta.Empty() {
		resp.Delta = &delta
	}

	due := snapshot.EffectiveDueDate()
	meta := TaskMeta{
		TaskID:    taskID,
		TaskName:  utils.Truncate(snapshot.Description, utils.IntentTextLimit),
		ActorName: s.actorName(ctx, actor),
		Priority:  snapshot.Priority,
		Due:       &due,
	}
	intents := ReconcileIntents(delta, meta)
	if statusChanged {
		intents = append(intents, statusIntents(meta, snapshot, actor, view.AssigneeIDs())...)
	}
	s.dispatch(ctx, intents)
	return resp, nil
}

// statusIntents addresses a status change: managers tell the assignees,
// assignees tell the creator.
func statusIntents(meta TaskMeta, task types.Task, actor types.Actor, assignees []int64) []types.NotificationIntent {
	recipients := []int64{task.CreatedBy}
	if actor.Can(types.CapManageTasks) {
		recipients = assignees
	}
	intents := make([]types.NotificationIntent, 0, len(recipients))
	for _, id := range recipients {
		in := meta.intent(types.IntentStatusUpdate, id)
		in.Status = task.Status
		in.StatusDesc = task.StatusDesc
		intents = append(intents, in)
	}
	return intents
}

func (s *taskService) AppendHistory(ctx context.Context, actor types.Actor, taskID int64, req types.AppendHistoryRequest) (*types.HistoryEntry, error) {
	userID := req.UserID.Int64()
	if taskID <= 0 || userID <= 0 || req.Status == "" {
		return nil, validationError("taskId, user_id and status are required")
	}
	if !req.Status.Valid() {
		return nil, validationError("invalid history status %q", req.Status)
	}
	changedBy := actor.ID
	if req.ChangedBy != nil && req.ChangedBy.Int64() != 0 {
		changedBy = req.ChangedBy.Int64()
	}
	if changedBy != actor.ID && !actor.Can(types.CapManageTasks) {
		return nil, forbiddenError("changed_by must be the caller")
	}

	var entry types.HistoryEntry
	err := s.tasks.WithTaskLock(ctx, taskID, func(tx repository.TaskTx, task *types.Task) error {
		current, err := tx.AssigneeIDs(taskID)
		if err != nil {
			return err
		}
		if !CanViewTask(actor, task, current) {
			return forbiddenError("you cannot view this task")
		}
		latest, err := tx.LatestHistory(taskID, []int64{userID})
		if err != nil {
			return err
		}
		status := req.Status
		if status == types.HistoryNew && latest[userID] == types.HistoryLost {
			status = types.HistoryReassigned
		}
		now := s.now()
		entry = types.HistoryEntry{
			TaskID:    taskID,
			UserID:    userID,
			Status:    status,
			ChangedBy: changedBy,
			ChangedAt: now,
			ChangeID:  s.newID(),
		}
		rows := []types.HistoryEntry{entry}
		if err := tx.InsertHistory(rows); err != nil {
			return err
		}
		entry = rows[0]
		return tx.TouchAssignee(taskID, userID, now)
	})
	if err != nil {
		var serr *Error
		if errors.As(err, &serr) {
			return nil, err
		}
		return nil, orNotFound(err, "task")
	}
	return &entry, nil
}

func (s *taskService) UserHistory(ctx context.Context, actor types.Actor) ([]types.HistoryView, error) {
	return s.tasks.UserHistory(ctx, actor.ID)
}

func (s *taskService) DeleteTask(ctx context.Context, actor types.Actor, id int64) error {
	if id <= 0 {
		return validationError("Missing task ID")
	}
	view, err := s.tasks.GetTaskView(ctx, id)
	if err != nil {
		return orNotFound(err, "task")
	}
	if view.CreatedBy != actor.ID && !actor.Can(types.CapDeleteAnyTask) {
		return forbiddenError("Only the creator or admin can delete this task")
	}
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		return orNotFound(err, "task")
	}
	s.notifier.ForgetTask(ctx, id)

	meta := TaskMeta{
		TaskID:    id,
		TaskName:  utils.Truncate(view.Description, utils.IntentTextLimit),
		ActorName: s.actorName(ctx, actor),
		Priority:  view.Priority,
	}
	recipients := dedupe(append([]int64{view.CreatedBy}, view.AssigneeIDs()...))
	intents := make([]types.NotificationIntent, 0, len(recipients))
	for _, uid := range recipients {
		in := meta.intent(types.IntentTaskDeleted, uid)
		in.EmailOnly = true
		intents = append(intents, in)
	}
	s.dispatch(ctx, intents)
	return nil
}
