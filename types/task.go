package types

import "time"

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
	StatusCancelled  TaskStatus = "Cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether the task still needs work.
func (s TaskStatus) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// statusTransitions maps from -> to -> whether the move needs CapManageTasks.
var statusTransitions = map[TaskStatus]map[TaskStatus]bool{
	StatusPending: {
		StatusInProgress: false,
		StatusCompleted:  false,
		StatusCancelled:  true,
	},
	StatusInProgress: {
		StatusPending:   false,
		StatusCompleted: false,
		StatusCancelled: true,
	},
	StatusCompleted: {
		StatusInProgress: true,
	},
	StatusCancelled: {
		StatusPending: true,
	},
}

// Transition reports whether from -> to is a legal move and whether it is
// reserved for manager-or-above roles. Staying in place is always legal.
func Transition(from, to TaskStatus) (managerOnly bool, ok bool) {
	if from == to {
		return false, true
	}
	managerOnly, ok = statusTransitions[from][to]
	return managerOnly, ok
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// HistoryStatus tags one user's relationship change on a task.
type HistoryStatus string

const (
	HistoryNew        HistoryStatus = "New"
	HistoryOld        HistoryStatus = "Old"
	HistoryLost       HistoryStatus = "Lost"
	HistoryReassigned HistoryStatus = "Reassigned"
)

func (s HistoryStatus) Valid() bool {
	switch s {
	case HistoryNew, HistoryOld, HistoryLost, HistoryReassigned:
		return true
	}
	return false
}

type Task struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	Description     string     `gorm:"type:text;not null" json:"task"`
	Priority        Priority   `gorm:"size:10;default:Medium" json:"priority"`
	AssignedDate    time.Time  `json:"assigned_date"`
	DueDate         time.Time  `gorm:"index" json:"due_date"`
	ExtendedDueDate *time.Time `json:"extended_due_date"`
	Status          TaskStatus `gorm:"size:20;default:Pending;index" json:"status"`
	StatusDesc      string     `gorm:"type:text" json:"status_desc"`
	CreatedBy       int64      `gorm:"index;not null" json:"created_by_id"`
	LastUpdatedBy   *int64     `json:"last_updated_by_id"`
	LastUpdated     *time.Time `json:"last_updated"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Task) TableName() string {
	return "task_reminders"
}

// EffectiveDueDate is the extended due date when one is set.
func (t *Task) EffectiveDueDate() time.Time {
	if t.ExtendedDueDate != nil {
		return *t.ExtendedDueDate
	}
	return t.DueDate
}

type TaskAssignee struct {
	ID         int64     `gorm:"primaryKey" json:"-"`
	TaskID     int64     `gorm:"uniqueIndex:idx_task_user;not null" json:"task_id"`
	UserID     int64     `gorm:"uniqueIndex:idx_task_user;not null;index" json:"user_id"`
	AssignedBy *int64    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (TaskAssignee) TableName() string {
	return "task_assignees"
}

type HistoryEntry struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	TaskID    int64         `gorm:"index:idx_history_task_user;not null" json:"task_id"`
	UserID    int64         `gorm:"index:idx_history_task_user;not null" json:"user_id"`
	Status    HistoryStatus `gorm:"size:20;not null" json:"status"`
	ChangedBy int64         `gorm:"index" json:"changed_by"`
	ChangedAt time.Time     `gorm:"index" json:"changed_at"`
	// ChangeID groups rows written by the same reconciliation pass.
	ChangeID string `gorm:"size:36;index" json:"change_id,omitempty"`
}

func (HistoryEntry) TableName() string {
	return "task_history"
}

// HistoryView is a history row joined with task and user names.
type HistoryView struct {
	HistoryEntry
	TaskName      string `json:"task_name"`
	UserName      string `json:"user_name"`
	ChangedByName string `json:"changed_by_name"`
}

// TaskView is a task as returned to API callers.
type TaskView struct {
	Task
	CreatedByUser      UserRef   `json:"created_by"`
	LastUpdatedByUser  *UserRef  `json:"last_updated_by,omitempty"`
	Users              []UserRef `json:"users"`
	PreviouslyAssigned []UserRef `json:"previously_assigned,omitempty"`
}

// AssigneeIDs returns the ids of the current assignees.
func (v *TaskView) AssigneeIDs() []int64 {
	ids := make([]int64, 0, len(v.Users))
	for _, u := range v.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

// TaskScope is the row predicate for task listings: every task, or tasks
// UserID created or is assigned to.
type TaskScope struct {
	All    bool
	UserID int64
}

// AssignmentDelta is the outcome of one reconciliation pass.
type AssignmentDelta struct {
	Added       []int64 `json:"added"`
	Reactivated []int64 `json:"reactivated"`
	Retained    []int64 `json:"retained"`
	Removed     []int64 `json:"removed"`
}

// Empty reports whether the pass changes nothing.
func (d AssignmentDelta) Empty() bool {
	return len(d.Added) == 0 && len(d.Reactivated) == 0 && len(d.Removed) == 0
}

// ReminderTask is an active task paired with one of its assignees, as read
// by the daily reminder job.
type ReminderTask struct {
	TaskID          int64      `gorm:"column:task_id"`
	TaskName        string     `gorm:"column:task_name"`
	Status          TaskStatus `gorm:"column:status"`
	DueDate         time.Time  `gorm:"column:due_date"`
	ExtendedDueDate *time.Time `gorm:"column:extended_due_date"`
	CreatedByName   string     `gorm:"column:created_by_name"`
	UserID          int64      `gorm:"column:user_id"`
	UserName        string     `gorm:"column:user_name"`
	Email           string     `gorm:"column:email"`
}
