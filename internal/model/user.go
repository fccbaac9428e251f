package model

import (
	"time"
)

// User 账号。is_staff / is_superuser 决定默认加入的管理组
// swagger:model User
type User struct {
	BaseModel
	Username    string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"size:254;index" json:"email"`
	Password    string     `gorm:"size:128;not null" json:"-"`
	IsStaff     bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"is_superuser"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	Groups      []Group    `gorm:"many2many:user_groups;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u User) String() string {
	return u.Username
}

// IsAdminCapable 只有 staff 或 superuser 才能进入管理组
func (u User) IsAdminCapable() bool {
	return u.IsStaff || u.IsSuperuser
}

func (u User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}
