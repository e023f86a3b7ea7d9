package repository

import (
	"context"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepo interface {
	// CreateTask inserts the task, its assignees and their history rows in
	// one transaction. Row task ids are filled in from the new task.
	CreateTask(ctx context.Context, task *types.Task, assignees []types.TaskAssignee, history []types.HistoryEntry) error
	GetTaskView(ctx context.Context, id int64) (*types.TaskView, error)
	ListTasks(ctx context.Context, scope types.TaskScope) ([]types.TaskView, error)
	PreviouslyAssigned(ctx context.Context, taskID int64) ([]types.UserRef, error)
	UserHistory(ctx context.Context, userID int64) ([]types.HistoryView, error)
	DeleteTask(ctx context.Context, id int64) error
	ActiveAssignments(ctx context.Context) ([]types.ReminderTask, error)
	// WithTaskLock runs fn in a transaction holding the task row lock, so
	// mutations of one task are serialized across processes. fn's error
	// rolls the transaction back.
	WithTaskLock(ctx context.Context, taskID int64, fn func(tx TaskTx, task *types.Task) error) error
}

// TaskTx is the write surface available while a task is locked.
type TaskTx interface {
	AssigneeIDs(taskID int64) ([]int64, error)
	// LatestHistory returns the newest history status per user.
	LatestHistory(taskID int64, userIDs []int64) (map[int64]types.HistoryStatus, error)
	SaveTask(task *types.Task) error
	RemoveAssignees(taskID int64, userIDs []int64) error
	AddAssignees(rows []types.TaskAssignee) error
	InsertHistory(rows []types.HistoryEntry) error
	TouchAssignee(taskID, userID int64, at time.Time) error
}

type taskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepo {
	return &taskRepo{
		db: db,
	}
}

func (r *taskRepo) CreateTask(ctx context.Context, task *types.Task, assignees []types.TaskAssignee, history []types.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		for i := range assignees {
			assignees[i].TaskID = task.ID
		}
		for i := range history {
			history[i].TaskID = task.ID
		}
		if len(assignees) > 0 {
			if err := tx.Create(&assignees).Error; err != nil {
				return err
			}
		}
		if len(history) > 0 {
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// visibleTo renders a TaskScope as a where clause on task_reminders.
func visibleTo(scope types.TaskScope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if scope.All {
			return db
		}
		assigned := db.Session(&gorm.Session{NewDB: true}).
			Model(&types.TaskAssignee{}).
			Select("task_id").
			Where("user_id = ?", scope.UserID)
		return db.Where("task_reminders.created_by = ? OR task_reminders.id IN (?)", scope.UserID, assigned)
	}
}

func (r *taskRepo) ListTasks(ctx context.Context, scope types.TaskScope) ([]types.TaskView, error) {
	var tasks []types.Task
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(scope)).
		Order("task_reminders.due_date DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return r.views(ctx, tasks)
}

func (r *taskRepo) GetTaskView(ctx context.Context, id int64) (*types.TaskView, error) {
	var task types.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	views, err := r.views(ctx, []types.Task{task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type assigneeRow struct {
	TaskID int64
	UserID int64
	Name   string
	Email  string
}

// views joins tasks with creator, last updater and assignee names.
func (r *taskRepo) views(ctx context.Context, tasks []types.Task) ([]types.TaskView, error) {
	views := make([]types.TaskView, len(tasks))
	if len(tasks) == 0 {
		return views, nil
	}
	taskIDs := make([]int64, 0, len(tasks))
	userIDs := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
		userIDs = append(userIDs, t.CreatedBy)
		if t.LastUpdatedBy != nil {
			userIDs = append(userIDs, *t.LastUpdatedBy)
		}
	}

	var users []types.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	var rows []assigneeRow
	err := r.db.WithContext(ctx).
		Table("task_assignees AS ta").
		Select("ta.task_id, u.id AS user_id, u.name, u.email").
		Joins("JOIN users u ON u.id = ta.user_id").
		Where("ta.task_id IN ?", taskIDs).
		Order("ta.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	assignees := make(map[int64][]types.UserRef, len(tasks))
	for _, row := range rows {
		assignees[row.TaskID] = append(assignees[row.TaskID], types.UserRef{ID: row.UserID, Name: row.Name, Email: row.Email})
	}

	for i, t := range tasks {
		creator := byID[t.CreatedBy]
		views[i] = types.TaskView{
			Task:          t,
			CreatedByUser: types.UserRef{ID: t.CreatedBy, Name: creator.Name, Email: creator.Email},
			Users:         assignees[t.ID],
		}
		if views[i].Users == nil {
			views[i].Users = []types.UserRef{}
		}
		if t.LastUpdatedBy != nil {
			u := byID[*t.LastUpdatedBy]
			views[i].LastUpdatedByUser = &types.UserRef{ID: *t.LastUpdatedBy, Name: u.Name}
		}
	}
	return views, nil
}

func (r *taskRepo) PreviouslyAssigned(ctx context.Context, taskID int64) ([]types.UserRef, error) {
	var refs []types.UserRef
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT u.id, u.name, u.email
		FROM task_history th
		JOIN users u ON u.id = th.user_id
		WHERE th.task_id = ?
		  AND th.user_id NOT IN (SELECT ta.user_id FROM task_assignees ta WHERE ta.task_id = ?)
		ORDER BY u.name`, taskID, taskID).
		Scan(&refs).Error
	return refs, err
}

func (r *taskRepo) UserHistory(ctx context.Context, userID int64) ([]types.HistoryView, error) {
	var rows []types.HistoryView
	err := r.db.WithContext(ctx).Raw(`
		SELECT th.id, th.task_id, th.user_id, th.status, th.changed_by, th.changed_at, th.change_id,
		       tr.description AS task_name,
		       COALESCE(u.name, '') AS user_name,
		       COALESCE(cb.name, '') AS changed_by_name
		FROM task_history th
		JOIN task_reminders tr ON tr.id = th.task_id
		LEFT JOIN users u ON u.id = th.user_id
		LEFT JOIN users cb ON cb.id = th.changed_by
		WHERE th.user_id = ? OR th.changed_by = ?
		ORDER BY th.changed_at DESC, th.id DESC`, userID, userID).
		Scan(&rows).Error
	return rows, err
}

func (r *taskRepo) DeleteTask(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&types.HistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&types.TaskAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&types.SelfReminder{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&types.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *taskRepo) ActiveAssignments(ctx context.Context) ([]types.ReminderTask, error) {
	var rows []types.ReminderTask
	err := r.db.WithContext(ctx).Raw(`
		SELECT tr.id AS task_id, tr.description AS task_name, tr.status, tr.due_date, tr.extended_due_date,
		       COALESCE(cu.name, '') AS created_by_name,
		       u.id AS user_id, u.name AS user_name, u.email
		FROM task_reminders tr
		JOIN task_assignees ta ON ta.task_id = tr.id
		JOIN users u ON u.id = ta.user_id
		LEFT JOIN users cu ON cu.id = tr.created_by
		WHERE tr.status IN ? AND u.is_deleted = ?
		ORDER BY u.id, tr.due_date, tr.id`,
		[]types.TaskStatus{types.StatusPending, types.StatusInProgress}, false).
		Scan(&rows).Error
	return rows, err
}

func (r *taskRepo) WithTaskLock(ctx context.Context, taskID int64, fn func(tx TaskTx, task *types.Task) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task types.Task
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, taskID).Error
		if err != nil {
			return translate(err)
		}
		return fn(&taskTx{db: tx}, &task)
	})
}

type taskTx struct {
	db *gorm.DB
}

func (t *taskTx) AssigneeIDs(taskID int64) ([]int64, error) {
	var ids []int64
	err := t.db.Model(&types.TaskAssignee{}).
		Where("task_id = ?", taskID).
		Order("id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (t *taskTx) LatestHistory(taskID int64, userIDs []int64) (map[int64]types.HistoryStatus, error) {
	latest := make(map[int64]types.HistoryStatus, len(userIDs))
	if len(userIDs) == 0 {
		return latest, nil
	}
	var rows []types.HistoryEntry
	err := t.db.Where("task_id = ? AND user_id IN ?", taskID, userIDs).
		Order("changed_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		latest[row.UserID] = row.Status
	}
	return latest, nil
}

func (t *taskTx) SaveTask(task *types.Task) error {
	return t.db.Model(task).Select(
		"status", "status_desc", "extended_due_date", "last_updated", "last_updated_by",
	).Updates(task).Error
}

func (t *taskTx) RemoveAssignees(taskID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	return t.db.Where("task_id = ? AND user_id IN ?", taskID, userIDs).Delete(&types.TaskAssignee{}).Error
}

func (t *taskTx) AddAssignees(rows []types.TaskAssignee) error {
	if len(rows) == 0 {
		return nil
	}
	return t.db.Create(&rows).Error
}

func (t *taskTx) InsertHistory(rows []types.HistoryEntry) error {
	if len(rows) == 0 {
		return nil
	}
	return t.db.Create(&rows).Error
}

func (t *taskTx) TouchAssignee(taskID, userID int64, at time.Time) error {
	return t.db.Model(&types.TaskAssignee{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Update("assigned_at", at).Error
}
