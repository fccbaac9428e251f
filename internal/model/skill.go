package model

import (
	"encoding/json"
	"time"
)

// swagger:model Skill
type Skill struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    string         `gorm:"size:50;not null;index" json:"category"`
	Difficulty  string         `gorm:"size:10;not null;index" json:"difficulty"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Owner       User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;<-:create" json:"created_at"`
	Goals       []LearningGoal `gorm:"constraint:OnDelete:CASCADE" json:"goals"`
	Resources   []Resource     `gorm:"constraint:OnDelete:CASCADE" json:"resources,omitempty"`
}

func (Skill) TableName() string {
	return "skills"
}

func (s Skill) String() string {
	return s.Name
}

// IsComplete 至少有一个目标且全部完成。调用前需要预加载 Goals
func (s Skill) IsComplete() bool {
	if len(s.Goals) == 0 {
		return false
	}
	for _, g := range s.Goals {
		if !g.IsComplete() {
			return false
		}
	}
	return true
}

func (s Skill) MarshalJSON() ([]byte, error) {
	type alias Skill
	goals := s.Goals
	if goals == nil {
		goals = []LearningGoal{}
	}
	return json.Marshal(struct {
		alias
		Goals      []LearningGoal `json:"goals"`
		IsComplete bool           `json:"is_complete"`
	}{alias(s), goals, s.IsComplete()})
}
