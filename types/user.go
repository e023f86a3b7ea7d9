package types

type User struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Email     string `gorm:"size:255;uniqueIndex" json:"email"`
	RoleID    Role   `gorm:"column:role_id;index" json:"role_id"`
	Level     int    `gorm:"default:0" json:"level"`
	DeptID    *int64 `gorm:"column:dept_id;index" json:"dept_id"`
	IsDeleted bool   `gorm:"default:false" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

type Department struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

func (Department) TableName() string {
	return "departments"
}

// UserRef is the short form of a user embedded in other responses.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
