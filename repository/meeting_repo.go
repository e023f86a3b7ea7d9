package repository

import (
	"context"

	"github.com/Euroteck-developer/Reminder-App/types"
	"gorm.io/gorm"
)

type MeetingRepo interface {
	CreateMeeting(ctx context.Context, m *types.Meeting, assignees []types.MeetingAssignee, depts []types.MeetingDepartment) error
	GetMeeting(ctx context.Context, id int64) (*types.Meeting, error)
	ListMeetings(ctx context.Context, scope types.MeetingScope) ([]types.MeetingView, error)
	UpdateStatus(ctx context.Context, id int64, status types.MeetingStatus) error
	DeleteMeeting(ctx context.Context, id int64) error
}

type meetingRepo struct {
	db *gorm.DB
}

func NewMeetingRepo(db *gorm.DB) MeetingRepo {
	return &meetingRepo{
		db: db,
	}
}

func (r *meetingRepo) CreateMeeting(ctx context.Context, m *types.Meeting, assignees []types.MeetingAssignee, depts []types.MeetingDepartment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		for i := range assignees {
			assignees[i].MeetingID = m.ID
		}
		for i := range depts {
			depts[i].MeetingID = m.ID
		}
		if len(assignees) > 0 {
			if err := tx.Create(&assignees).Error; err != nil {
				return err
			}
		}
		if len(depts) > 0 {
			if err := tx.Create(&depts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *meetingRepo) GetMeeting(ctx context.Context, id int64) (*types.Meeting, error) {
	var m types.Meeting
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

type meetingUserRow struct {
	MeetingID int64
	UserID    int64
	Name      string
	Email     string
}

type meetingDeptRow struct {
	MeetingID int64
	Name      string
}

func (r *meetingRepo) ListMeetings(ctx context.Context, scope types.MeetingScope) ([]types.MeetingView, error) {
	q := r.db.WithContext(ctx).Model(&types.Meeting{})
	if !scope.All {
		invited := r.db.Model(&types.MeetingAssignee{}).Select("meeting_id").Where("user_id = ?", scope.UserID)
		q = q.Where("meetings.created_by = ? OR meetings.id IN (?)", scope.UserID, invited)
	}
	var meetings []types.Meeting
	if err := q.Order("meetings.date DESC").Find(&meetings).Error; err != nil {
		return nil, err
	}
	views := make([]types.MeetingView, len(meetings))
	if len(meetings) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(meetings))
	creatorIDs := make([]int64, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
		creatorIDs = append(creatorIDs, m.CreatedBy)
	}

	var creators []types.User
	if err := r.db.WithContext(ctx).Where("id IN ?", creatorIDs).Find(&creators).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]types.User, len(creators))
	for _, u := range creators {
		byID[u.ID] = u
	}

	var userRows []meetingUserRow
	err := r.db.WithContext(ctx).
		Table("meeting_assignees AS ma").
		Select("ma.meeting_id, u.id AS user_id, u.name, u.email").
		Joins("JOIN users u ON u.id = ma.user_id").
		Where("ma.meeting_id IN ?", ids).
		Order("ma.id").
		Scan(&userRows).Error
	if err != nil {
		return nil, err
	}
	var deptRows []meetingDeptRow
	err = r.db.WithContext(ctx).
		Table("meeting_departments AS md").
		Select("md.meeting_id, d.name").
		Joins("JOIN departments d ON d.id = md.department_id").
		Where("md.meeting_id IN ?", ids).
		Order("md.id").
		Scan(&deptRows).Error
	if err != nil {
		return nil, err
	}

	users := make(map[int64][]types.UserRef)
	for _, row := range userRows {
		users[row.MeetingID] = append(users[row.MeetingID], types.UserRef{ID: row.UserID, Name: row.Name, Email: row.Email})
	}
	depts := make(map[int64][]string)
	for _, row := range deptRows {
		depts[row.MeetingID] = append(depts[row.MeetingID], row.Name)
	}
	for i, m := range meetings {
		creator := byID[m.CreatedBy]
		views[i] = types.MeetingView{
			Meeting:       m,
			CreatedByUser: types.UserRef{ID: m.CreatedBy, Name: creator.Name, Email: creator.Email},
			Users:         users[m.ID],
			Departments:   depts[m.ID],
		}
		if views[i].Users == nil {
			views[i].Users = []types.UserRef{}
		}
		if views[i].Departments == nil {
			views[i].Departments = []string{}
		}
	}
	return views, nil
}

func (r *meetingRepo) UpdateStatus(ctx context.Context, id int64, status types.MeetingStatus) error {
	return r.db.WithContext(ctx).Model(&types.Meeting{}).Where("id = ?", id).Update("status", status).Error
}

func (r *meetingRepo) DeleteMeeting(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&types.MeetingAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&types.MeetingDepartment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&types.Meeting{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
