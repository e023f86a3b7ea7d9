package types

import "time"

type NotificationType string

const (
	NotificationTask     NotificationType = "Task"
	NotificationMeeting  NotificationType = "Meeting"
	NotificationReminder NotificationType = "Reminder"
)

// Notification is one in-app feed entry, stored in MongoDB.
type Notification struct {
	ID           string           `bson:"_id,omitempty" json:"id"`
	UserID       int64            `bson:"user_id" json:"user_id"`
	Title        string           `bson:"title" json:"title"`
	Message      string           `bson:"message" json:"message"`
	Type         NotificationType `bson:"type" json:"type"`
	TaskID       *int64           `bson:"task_id,omitempty" json:"task_id,omitempty"`
	MeetingID    *int64           `bson:"meeting_id,omitempty" json:"meeting_id,omitempty"`
	IsRead       bool             `bson:"is_read" json:"is_read"`
	OpenedByUser bool             `bson:"opened_by_user" json:"opened_by_user"`
	ReadByUser   bool             `bson:"read_by_user" json:"read_by_user"`
	ReadAt       *time.Time       `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
}

type IntentKind string

const (
	IntentAssigned         IntentKind = "assigned"
	IntentReassigned       IntentKind = "reassigned"
	IntentRemoved          IntentKind = "removed"
	IntentStatusUpdate     IntentKind = "updated"
	IntentTaskCreated      IntentKind = "created"
	IntentTaskDeleted      IntentKind = "deleted"
	IntentMeetingScheduled IntentKind = "meeting"
	IntentDailyReminder    IntentKind = "daily-reminder"
	IntentSelfReminder     IntentKind = "self-reminder"
)

// NotificationIntent asks the notification sink to tell one recipient
// about a change. It carries everything rendering needs so delivery never
// has to read the task store again.
type NotificationIntent struct {
	Kind      IntentKind
	Recipient int64
	TaskID    *int64
	MeetingID *int64

	// TaskName is the description already truncated for display.
	TaskName   string
	ActorName  string
	Status     TaskStatus
	StatusDesc string
	Priority   Priority
	// When is the due date for tasks or the meeting time.
	When *time.Time
	// Count is the number of assignees on creator confirmations.
	Count int
	Round int

	// EmailOnly skips the in-app feed and the realtime channel.
	EmailOnly bool
	// InAppOnly skips the email.
	InAppOnly bool
}

const (
	TypeWebsocketPing            = "ping"
	TypeWebsocketPong            = "pong"
	TypeWebsocketNewNotification = "newNotification"
	TypeWebsocketError           = "error"
)

type WebsocketRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type WebSocketResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// NotificationEvent is the realtime payload pushed to a user.
type NotificationEvent struct {
	ID        string           `json:"id,omitempty"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	TaskID    *int64           `json:"taskId,omitempty"`
	MeetingID *int64           `json:"meetingId,omitempty"`
}

// MailMessage is one queued email.
type MailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
