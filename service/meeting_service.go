package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
	"go.uber.org/zap"
)

type MeetingService interface {
	Schedule(ctx context.Context, actor types.Actor, req types.ScheduleMeetingRequest) (*types.ScheduleMeetingResponse, error)
	List(ctx context.Context, actor types.Actor) ([]types.MeetingView, error)
	UpdateStatus(ctx context.Context, actor types.Actor, req types.UpdateMeetingStatusRequest) error
	Delete(ctx context.Context, actor types.Actor, id int64) error
}

type meetingService struct {
	meetings repository.MeetingRepo
	users    repository.UserRepo
	notifier Notifier
	now      func() time.Time
}

func NewMeetingService(meetings repository.MeetingRepo, users repository.UserRepo, notifier Notifier) MeetingService {
	return &meetingService{
		meetings: meetings,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

// Recipients merges explicit users with the members of the listed
// departments. Explicit users come first and keep a nil department.
func Recipients(explicit []types.User, members []types.User) []types.MeetingAssignee {
	out := make([]types.MeetingAssignee, 0, len(explicit)+len(members))
	seen := make(map[int64]bool, len(explicit)+len(members))
	for _, u := range explicit {
		if u.IsDeleted || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		out = append(out, types.MeetingAssignee{UserID: u.ID})
	}
	for _, u := range members {
		if u.IsDeleted || seen[u.ID] || u.DeptID == nil {
			continue
		}
		seen[u.ID] = true
		dept := *u.DeptID
		out = append(out, types.MeetingAssignee{UserID: u.ID, ViaDepartment: &dept})
	}
	return out
}

func (s *meetingService) Schedule(ctx context.Context, actor types.Actor, req types.ScheduleMeetingRequest) (*types.ScheduleMeetingResponse, error) {
	description := strings.TrimSpace(req.Description)
	userIDs := dedupe(req.Users)
	deptIDs := dedupe(req.Departments)
	if description == "" || req.Date.IsZero() || (len(userIDs) == 0 && len(deptIDs) == 0) {
		return nil, validationError("Missing required fields")
	}
	priority := req.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	if !priority.Valid() {
		return nil, validationError("invalid priority %q", req.Priority)
	}

	explicit, err := s.users.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	members, err := s.users.UsersInDepartments(ctx, deptIDs)
	if err != nil {
		return nil, fmt.Errorf("load department members: %w", err)
	}
	assignees := Recipients(explicit, members)

	meeting := &types.Meeting{
		Description: description,
		Date:        req.Date.Time,
		Priority:    priority,
		Status:      types.MeetingPending,
		CreatedBy:   actor.ID,
		CreatedAt:   s.now(),
	}
	depts := make([]types.MeetingDepartment, 0, len(deptIDs))
	for _, id := range deptIDs {
		depts = append(depts, types.MeetingDepartment{DepartmentID: id})
	}
	if err := s.meetings.CreateMeeting(ctx, meeting, assignees, depts); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	meetingID := meeting.ID
	when := meeting.Date
	intents := make([]types.NotificationIntent, 0, len(assignees))
	for _, a := range assignees {
		intents = append(intents, types.NotificationIntent{
			Kind:      types.IntentMeetingScheduled,
			Recipient: a.UserID,
			MeetingID: &meetingID,
			TaskName:  description,
			Priority:  priority,
			When:      &when,
		})
	}
	if err := s.notifier.Dispatch(ctx, intents); err != nil {
		zap.L().Warn("meeting notifications partially failed", zap.Int64("meeting_id", meetingID), zap.Error(err))
	}
	return &types.ScheduleMeetingResponse{MeetingID: meetingID, NotifiedUsers: len(assignees)}, nil
}

func (s *meetingService) List(ctx context.Context, actor types.Actor) ([]types.MeetingView, error) {
	return s.meetings.ListMeetings(ctx, MeetingScopeFor(actor))
}

func (s *meetingService) ownedMeeting(ctx context.Context, actor types.Actor, id int64, denied string) (*types.Meeting, error) {
	if id <= 0 {
		return nil, validationError("Meeting ID is required")
	}
	m, err := s.meetings.GetMeeting(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "Meeting")
	}
	if m.CreatedBy != actor.ID {
		return nil, forbiddenError("%s", denied)
	}
	return m, nil
}

func (s *meetingService) UpdateStatus(ctx context.Context, actor types.Actor, req types.UpdateMeetingStatusRequest) error {
	if req.MeetingID.Int64() <= 0 || req.Status == "" {
		return validationError("Meeting ID and status are required")
	}
	if !req.Status.Valid() {
		return validationError("Invalid status value")
	}
	m, err := s.ownedMeeting(ctx, actor, req.MeetingID.Int64(), "Only the creator can update the meeting status")
	if err != nil {
		return err
	}
	if err := s.meetings.UpdateStatus(ctx, m.ID, req.Status); err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	return nil
}

func (s *meetingService) Delete(ctx context.Context, actor types.Actor, id int64) error {
	m, err := s.ownedMeeting(ctx, actor, id, "You are not authorized to delete this meeting")
	if err != nil {
		return err
	}
	if err := s.meetings.DeleteMeeting(ctx, m.ID); err != nil {
		return orNotFound(err, "Meeting")
	}
	s.notifier.ForgetMeeting(ctx, m.ID)
	return nil
}
