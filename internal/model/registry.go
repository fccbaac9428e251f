package model

import "fmt"

type EntityType string

type Action string

const (
	EntityUser           EntityType = "user"
	EntityGroup          EntityType = "group"
	EntityPermission     EntityType = "permission"
	EntityProfile        EntityType = "profile"
	EntitySkill          EntityType = "skill"
	EntityLearningGoal   EntityType = "learninggoal"
	EntityProgressUpdate EntityType = "progressupdate"
	EntityResource       EntityType = "resource"
)

const (
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
	ActionView   Action = "view"
)

// 两个内置管理组
const (
	GroupSuperAdmin = "SuperAdmin"
	GroupStaffAdmin = "StaffAdmin"
)

var DefaultActions = []Action{ActionAdd, ActionChange, ActionDelete, ActionView}

// RegisteredEntity 一个可授权的实体类型及其声明的动作
type RegisteredEntity struct {
	Type    EntityType
	Verbose string
	Actions []Action
}

// EntityRegistry 显式登记的实体类型，权限同步与初始化都以它为输入
type EntityRegistry []RegisteredEntity

func DefaultRegistry() EntityRegistry {
	return EntityRegistry{
		{Type: EntityUser, Verbose: "user", Actions: DefaultActions},
		{Type: EntityGroup, Verbose: "group", Actions: DefaultActions},
		{Type: EntityPermission, Verbose: "permission", Actions: DefaultActions},
		{Type: EntityProfile, Verbose: "profile", Actions: DefaultActions},
		{Type: EntitySkill, Verbose: "skill", Actions: DefaultActions},
		{Type: EntityLearningGoal, Verbose: "learning goal", Actions: DefaultActions},
		{Type: EntityProgressUpdate, Verbose: "progress update", Actions: DefaultActions},
		{Type: EntityResource, Verbose: "resource", Actions: DefaultActions},
	}
}

func (r EntityRegistry) Types() []EntityType {
	types := make([]EntityType, 0, len(r))
	for _, e := range r {
		types = append(types, e.Type)
	}
	return types
}

func Codename(action Action, entity EntityType) string {
	return string(action) + "_" + string(entity)
}

func PermissionName(action Action, verbose string) string {
	return fmt.Sprintf("Can %s %s", action, verbose)
}

// StaffAdminGrants StaffAdmin 只能增改查技能、目标和进度
func StaffAdminGrants() (entities []EntityType, actions []Action) {
	return []EntityType{EntitySkill, EntityLearningGoal, EntityProgressUpdate},
		[]Action{ActionAdd, ActionChange, ActionView}
}
