package repository

import (
	"context"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SelfReminderRepo interface {
	GetSelfReminder(ctx context.Context, taskID, userID int64) (*types.SelfReminder, error)
	// SaveSelfReminder upserts the (task, user) reminder and clears its sent flag.
	SaveSelfReminder(ctx context.Context, taskID, userID int64, at time.Time) error
	DueSelfReminders(ctx context.Context, now time.Time) ([]types.DueSelfReminder, error)
	MarkSent(ctx context.Context, id int64) error
}

type selfReminderRepo struct {
	db *gorm.DB
}

func NewSelfReminderRepo(db *gorm.DB) SelfReminderRepo {
	return &selfReminderRepo{
		db: db,
	}
}

func (r *selfReminderRepo) GetSelfReminder(ctx context.Context, taskID, userID int64) (*types.SelfReminder, error) {
	var reminder types.SelfReminder
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&reminder).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reminder, nil
}

func (r *selfReminderRepo) SaveSelfReminder(ctx context.Context, taskID, userID int64, at time.Time) error {
	reminder := types.SelfReminder{
		TaskID:           taskID,
		UserID:           userID,
		ReminderDatetime: at,
		Sent:             false,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reminder_datetime", "sent", "updated_at"}),
	}).Create(&reminder).Error
}

func (r *selfReminderRepo) DueSelfReminders(ctx context.Context, now time.Time) ([]types.DueSelfReminder, error) {
	var rows []types.DueSelfReminder
	err := r.db.WithContext(ctx).Raw(`
		SELECT r.id, r.task_id, r.user_id, r.reminder_datetime,
		       u.email, u.name AS user_name, t.description AS task_title
		FROM task_self_reminders r
		JOIN users u ON u.id = r.user_id
		JOIN task_reminders t ON t.id = r.task_id
		WHERE r.sent = ? AND r.reminder_datetime <= ?
		ORDER BY r.reminder_datetime`, false, now).
		Scan(&rows).Error
	return rows, err
}

func (r *selfReminderRepo) MarkSent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&types.SelfReminder{}).
		Where("id = ?", id).
		Update("sent", true).Error
}
