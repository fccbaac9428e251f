package model

// Permission 一个实体类型上的一个动作，codename 形如 add_skill
// swagger:model Permission
type Permission struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	EntityType string `gorm:"size:100;not null;index" json:"entity_type"`
	Action     string `gorm:"size:50;not null" json:"action"`
	Codename   string `gorm:"size:100;uniqueIndex;not null" json:"codename"`
}

func (Permission) TableName() string {
	return "permissions"
}

// swagger:model Group
type Group struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:group_permissions;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

func (g Group) String() string {
	return g.Name
}
