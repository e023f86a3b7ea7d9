package types

import "time"

type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "Pending"
	MeetingCompleted MeetingStatus = "Completed"
	MeetingCancelled MeetingStatus = "Cancelled"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingPending, MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

type Meeting struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Date        time.Time     `gorm:"index" json:"date"`
	Priority    Priority      `gorm:"size:10;default:Medium" json:"priority"`
	Status      MeetingStatus `gorm:"size:20;default:Pending" json:"status"`
	CreatedBy   int64         `gorm:"index;not null" json:"created_by_id"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (Meeting) TableName() string {
	return "meetings"
}

// MeetingAssignee is one recipient of a meeting. Department members are
// expanded into rows when the meeting is scheduled, ViaDepartment records
// which department brought them in.
type MeetingAssignee struct {
	ID            int64  `gorm:"primaryKey"`
	MeetingID     int64  `gorm:"uniqueIndex:idx_meeting_user;not null"`
	UserID        int64  `gorm:"uniqueIndex:idx_meeting_user;not null;index"`
	ViaDepartment *int64 `gorm:"index"`
}

func (MeetingAssignee) TableName() string {
	return "meeting_assignees"
}

type MeetingDepartment struct {
	ID           int64 `gorm:"primaryKey"`
	MeetingID    int64 `gorm:"index;not null"`
	DepartmentID int64 `gorm:"not null"`
}

func (MeetingDepartment) TableName() string {
	return "meeting_departments"
}

type MeetingView struct {
	Meeting
	CreatedByUser UserRef   `json:"created_by"`
	Users         []UserRef `json:"users"`
	Departments   []string  `json:"departments"`
}

// MeetingScope is the row predicate for meeting listings.
type MeetingScope struct {
	All    bool
	UserID int64
}
