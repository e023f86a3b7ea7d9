package database

import (
	"fmt"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewMySQL opens the relational store. The DSN must carry parseTime=true.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Second)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Models lists every table owned by this service, in dependency order.
func Models() []any {
	return []any{
		&types.Department{},
		&types.User{},
		&types.Task{},
		&types.TaskAssignee{},
		&types.HistoryEntry{},
		&types.Meeting{},
		&types.MeetingAssignee{},
		&types.MeetingDepartment{},
		&types.SelfReminder{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
