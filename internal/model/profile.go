package model

// Profile 与 User 一对一，编辑后需要重新审核
// swagger:model Profile
type Profile struct {
	BaseModel
	UserID     uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	User       User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bio        *string `gorm:"type:text" json:"bio"`
	Avatar     string  `gorm:"size:255" json:"avatar"`
	IsApproved bool    `gorm:"not null;default:false" json:"is_approved"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p Profile) String() string {
	return p.User.Username
}
