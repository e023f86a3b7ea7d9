package repository

import (
	"context"

	"github.com/Euroteck-developer/Reminder-App/types"
	"gorm.io/gorm"
)

// UserRepo reads the user directory owned by the profile service.
type UserRepo interface {
	GetUser(ctx context.Context, id int64) (*types.User, error)
	GetUsers(ctx context.Context, ids []int64) ([]types.User, error)
	ListActiveUsers(ctx context.Context) ([]types.User, error)
	UsersInDepartments(ctx context.Context, deptIDs []int64) ([]types.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{
		db: db,
	}
}

func (r *userRepo) GetUser(ctx context.Context, id int64) (*types.User, error) {
	var user types.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) GetUsers(ctx context.Context, ids []int64) ([]types.User, error) {
	var users []types.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepo) ListActiveUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("name").
		Find(&users).Error
	return users, err
}

func (r *userRepo) UsersInDepartments(ctx context.Context, deptIDs []int64) ([]types.User, error) {
	var users []types.User
	if len(deptIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("dept_id IN ? AND is_deleted = ?", deptIDs, false).
		Order("id").
		Find(&users).Error
	return users, err
}
