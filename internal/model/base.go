package model

import (
	"time"
)

// BaseModel 不带软删除：账号删除需要真正级联删除下属数据
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
