package handler

import (
	"context"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
)

type stubTaskService struct {
	err        error
	lastCreate types.CreateTaskRequest
	lastUpdate types.UpdateTaskRequest
	lastActor  types.Actor
	lastID     int64
}

func (s *stubTaskService) CreateTask(_ context.Context, a types.Actor, req types.CreateTaskRequest) (*types.CreateTaskResponse, error) {
	s.lastActor, s.lastCreate = a, req
	if s.err != nil {
		return nil, s.err
	}
	return &types.CreateTaskResponse{TaskID: 41}, nil
}

func (s *stubTaskService) ListTasks(_ context.Context, a types.Actor) ([]types.TaskView, error) {
	s.lastActor = a
	return []types.TaskView{{Task: types.Task{ID: 1, Description: "one"}}}, s.err
}

func (s *stubTaskService) GetTask(_ context.Context, a types.Actor, id int64) (*types.TaskView, error) {
	s.lastActor, s.lastID = a, id
	if s.err != nil {
		return nil, s.err
	}
	return &types.TaskView{Task: types.Task{ID: id}}, nil
}

func (s *stubTaskService) UpdateTask(_ context.Context, a types.Actor, req types.UpdateTaskRequest) (*types.UpdateTaskResponse, error) {
	s.lastActor, s.lastUpdate = a, req
	if s.err != nil {
		return nil, s.err
	}
	return &types.UpdateTaskResponse{Task: &types.TaskView{Task: types.Task{ID: req.TaskID.Int64()}}}, nil
}

func (s *stubTaskService) AppendHistory(_ context.Context, a types.Actor, taskID int64, req types.AppendHistoryRequest) (*types.HistoryEntry, error) {
	s.lastActor, s.lastID = a, taskID
	if s.err != nil {
		return nil, s.err
	}
	return &types.HistoryEntry{ID: 9, TaskID: taskID, UserID: req.UserID.Int64(), Status: req.Status}, nil
}

func (s *stubTaskService) UserHistory(_ context.Context, a types.Actor) ([]types.HistoryView, error) {
	s.lastActor = a
	return nil, s.err
}

func (s *stubTaskService) DeleteTask(_ context.Context, a types.Actor, id int64) error {
	s.lastActor, s.lastID = a, id
	return s.err
}

type stubStatsService struct {
	statsType, userID string
	err               error
}

func (s *stubStatsService) UserPerformance(_ context.Context, _ types.Actor, statsType, userID string) (*types.PerformanceResponse, error) {
	s.statsType, s.userID = statsType, userID
	if s.err != nil {
		return nil, s.err
	}
	return &types.PerformanceResponse{
		Success:            true,
		PerformanceSummary: types.PerformanceSummary{Completed: 1, Pending: 1, TotalTasks: 2, PerformancePercentage: 50},
		Data:               []types.PerformanceRow{},
	}, nil
}

type stubMeetingService struct {
	notified int
	err      error
	lastID   int64
}

func (s *stubMeetingService) Schedule(context.Context, types.Actor, types.ScheduleMeetingRequest) (*types.ScheduleMeetingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.ScheduleMeetingResponse{MeetingID: 12, NotifiedUsers: s.notified}, nil
}

func (s *stubMeetingService) List(context.Context, types.Actor) ([]types.MeetingView, error) {
	return nil, s.err
}

func (s *stubMeetingService) UpdateStatus(context.Context, types.Actor, types.UpdateMeetingStatusRequest) error {
	return s.err
}

func (s *stubMeetingService) Delete(_ context.Context, _ types.Actor, id int64) error {
	s.lastID = id
	return s.err
}

type stubNotificationService struct {
	service.Notifier
	unopened *types.Notification
	err      error
	lastID   string
	missed   int
}

func (s *stubNotificationService) List(context.Context, types.Actor) ([]types.Notification, error) {
	return nil, s.err
}

func (s *stubNotificationService) Unopened(context.Context, types.Actor) (*types.Notification, error) {
	return s.unopened, s.err
}

func (s *stubNotificationService) MarkOpened(_ context.Context, _ types.Actor, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubNotificationService) MarkRead(_ context.Context, _ types.Actor, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubNotificationService) Delete(_ context.Context, _ types.Actor, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubNotificationService) Clear(context.Context, types.Actor) (int64, error) {
	return 3, s.err
}

func (s *stubNotificationService) DeliverMissed(context.Context, int64) (int, error) {
	s.missed++
	return 0, nil
}

type stubSelfReminderService struct {
	service.SelfReminderService
	saved types.SaveSelfReminderRequest
	err   error
}

func (s *stubSelfReminderService) Get(_ context.Context, a types.Actor, taskID int64) (*types.SelfReminder, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.SelfReminder{TaskID: taskID, UserID: a.ID}, nil
}

func (s *stubSelfReminderService) Save(_ context.Context, _ types.Actor, req types.SaveSelfReminderRequest) error {
	s.saved = req
	return s.err
}

type stubUserService struct {
	users []types.User
}

func (s *stubUserService) Assignable(context.Context, types.Actor) ([]types.User, error) {
	return s.users, nil
}

func (s *stubUserService) Profile(_ context.Context, a types.Actor) (*types.User, error) {
	return &types.User{ID: a.ID, Name: "Bala", Email: a.Email}, nil
}
