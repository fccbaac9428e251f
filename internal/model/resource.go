package model

import "time"

// Resource 挂在技能下的外部链接，需要审核后才公开。AddedByID 创建后不可修改
// swagger:model Resource
type Resource struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Link      string    `gorm:"size:200;not null" json:"link"`
	SkillID   uint      `gorm:"not null;index" json:"skill_id"`
	Skill     Skill     `json:"-"`
	Approved  bool      `gorm:"not null;default:false;index" json:"approved"`
	AddedByID *uint     `gorm:"index;<-:create" json:"added_by_id"`
	AddedBy   *User     `gorm:"foreignKey:AddedByID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;<-:create" json:"created_at"`
}

func (Resource) TableName() string {
	return "resources"
}

func (r Resource) String() string {
	return r.Title
}
