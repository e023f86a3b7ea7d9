package types

import "time"

type PerformanceStatus string

const (
	PerformanceCompleted PerformanceStatus = "Completed"
	PerformanceLost      PerformanceStatus = "Lost"
	PerformancePending   PerformanceStatus = "Pending"
)

// StatsQuery is a resolved statistics request. UserID zero means no user
// narrowing, only valid for StatsAll.
type StatsQuery struct {
	Type   StatsType
	UserID int64
}

// PerformanceRow is one statistics row: a (task, user) pair for the
// per-assignee views, a unique task otherwise.
type PerformanceRow struct {
	TaskID              int64             `gorm:"column:task_id" json:"task_id"`
	Description         string            `gorm:"column:description" json:"description"`
	Priority            Priority          `gorm:"column:priority" json:"priority"`
	TaskStatus          TaskStatus        `gorm:"column:task_status" json:"task_status"`
	CreatedBy           int64             `gorm:"column:created_by" json:"created_by"`
	CreatedByName       string            `gorm:"column:created_by_name" json:"created_by_name"`
	UserID              *int64            `gorm:"column:user_id" json:"user_id,omitempty"`
	UserName            *string           `gorm:"column:user_name" json:"assigned_to_name"`
	LatestHistoryStatus *HistoryStatus    `gorm:"column:latest_history_status" json:"latest_history_status"`
	LastLostDate        *time.Time        `gorm:"column:last_lost_date" json:"last_lost_date"`
	LastReassignDate    *time.Time        `gorm:"column:last_reassign_date" json:"last_reassign_date"`
	PerformanceStatus   PerformanceStatus `gorm:"-" json:"performance_status"`
}

type PerformanceSummary struct {
	Completed             int     `json:"completed"`
	Lost                  int     `json:"lost"`
	Pending               int     `json:"pending"`
	TotalTasks            int     `json:"totalTasks"`
	PerformancePercentage float64 `json:"performancePercentage"`
}

type PerformanceResponse struct {
	Success bool `json:"success"`
	PerformanceSummary
	Data []PerformanceRow `json:"data"`
}
