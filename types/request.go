package types

type CreateTaskRequest struct {
	Description  string   `json:"description"`
	Users        IDList   `json:"users"`
	AssignedDate FlexTime `json:"assignedDate"`
	DueDate      FlexTime `json:"dueDate"`
	Priority     Priority `json:"priority"`
}

// UpdateTaskRequest uses pointers so an absent field is told apart from a
// field set to its zero value.
type UpdateTaskRequest struct {
	TaskID      FlexID      `json:"taskId"`
	Status      *TaskStatus `json:"status"`
	StatusDesc  *string     `json:"statusDesc"`
	ExtendedDue *FlexTime   `json:"extendedDue"`
	AssignedTo  *IDList     `json:"assignedTo"`
}

type AppendHistoryRequest struct {
	UserID    FlexID        `json:"user_id"`
	Status    HistoryStatus `json:"status"`
	ChangedBy *FlexID       `json:"changed_by"`
}

type ScheduleMeetingRequest struct {
	Description string   `json:"description"`
	Date        FlexTime `json:"date"`
	Priority    Priority `json:"priority"`
	Users       IDList   `json:"users"`
	Departments IDList   `json:"departments"`
}

type UpdateMeetingStatusRequest struct {
	MeetingID FlexID        `json:"meetingId"`
	Status    MeetingStatus `json:"status"`
}

type SaveSelfReminderRequest struct {
	TaskID           FlexID   `json:"taskId"`
	ReminderDatetime FlexTime `json:"reminder_datetime"`
}
