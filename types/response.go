package types

type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type CreateTaskResponse struct {
	TaskID int64 `json:"taskId"`
}

type UpdateTaskResponse struct {
	Task  *TaskView        `json:"task"`
	Delta *AssignmentDelta `json:"delta,omitempty"`
}

type ScheduleMeetingResponse struct {
	MeetingID     int64 `json:"meetingId"`
	NotifiedUsers int   `json:"notifiedUsers"`
}
