package model

import (
	"fmt"
	"time"
)

// ProgressUpdate 对目标的一次进度增量，创建后不可修改日期
// swagger:model ProgressUpdate
type ProgressUpdate struct {
	ID         uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	GoalID     uint         `gorm:"not null;index" json:"goal_id"`
	Goal       LearningGoal `json:"-"`
	Progress   int          `gorm:"not null;default:0" json:"progress"`
	UpdateText string       `gorm:"type:text;not null" json:"update_text"`
	Date       time.Time    `gorm:"autoCreateTime;<-:create" json:"date"`
}

func (ProgressUpdate) TableName() string {
	return "progress_updates"
}

func (u ProgressUpdate) String() string {
	return fmt.Sprintf("Update for %s on %s", u.Goal.Skill.Name, u.Date.Format(time.RFC3339))
}
