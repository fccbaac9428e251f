package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	MinGoalProgress = 0
	MaxGoalProgress = 100

	// DateLayout target_date 的输入输出格式
	DateLayout = "2006-01-02"
)

// swagger:model LearningGoal
type LearningGoal struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	SkillID     uint             `gorm:"not null;index" json:"skill_id"`
	Skill       Skill            `json:"-"`
	Name        string           `gorm:"size:100;not null" json:"name"`
	Description string           `gorm:"type:text;not null" json:"description"`
	TargetDate  datatypes.Date   `gorm:"not null;index" json:"target_date"`
	Progress    int              `gorm:"not null;default:0" json:"progress"`
	Updates     []ProgressUpdate `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LearningGoal) TableName() string {
	return "learning_goals"
}

func (g LearningGoal) IsComplete() bool {
	return g.Progress >= MaxGoalProgress
}

func (g LearningGoal) String() string {
	return g.Skill.Name + " Goal"
}

func (g LearningGoal) TargetDateString() string {
	return time.Time(g.TargetDate).Format(DateLayout)
}

func (g LearningGoal) MarshalJSON() ([]byte, error) {
	type alias LearningGoal
	return json.Marshal(struct {
		alias
		TargetDate string `json:"target_date"`
		IsComplete bool   `json:"is_complete"`
	}{alias(g), g.TargetDateString(), g.IsComplete()})
}

// ClampProgress 目标进度只能落在 0-100
func ClampProgress(total int) int {
	if total > MaxGoalProgress {
		return MaxGoalProgress
	}
	if total < MinGoalProgress {
		return MinGoalProgress
	}
	return total
}
