package types

import "time"

// SelfReminder is a reminder a user sets for themselves on a task.
type SelfReminder struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	TaskID           int64     `gorm:"uniqueIndex:idx_self_task_user;not null" json:"task_id"`
	UserID           int64     `gorm:"uniqueIndex:idx_self_task_user;not null" json:"user_id"`
	ReminderDatetime time.Time `gorm:"column:reminder_datetime;index" json:"reminder_datetime"`
	Sent             bool      `gorm:"default:false;index" json:"sent"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (SelfReminder) TableName() string {
	return "task_self_reminders"
}

// DueSelfReminder is a pending self reminder joined with what the email needs.
type DueSelfReminder struct {
	ID               int64
	TaskID           int64
	UserID           int64
	ReminderDatetime time.Time
	Email            string
	UserName         string
	TaskTitle        string
}
