package validation

import (
	"strings"
	"time"

	"skill_tracker_backend/internal/model"
)

type Widget string

const (
	WidgetText        Widget = "text"
	WidgetTextarea    Widget = "textarea"
	WidgetNumber      Widget = "number"
	WidgetDate        Widget = "date"
	WidgetEmail       Widget = "email"
	WidgetPassword    Widget = "password"
	WidgetURL         Widget = "url"
	WidgetSelect      Widget = "select"
	WidgetMultiSelect Widget = "select_multiple"
	WidgetCheckbox    Widget = "checkbox"
	WidgetFile        Widget = "file"
	WidgetHidden      Widget = "hidden"
)

// FieldSpec 表单字段的静态描述，供渲染层生成控件
type FieldSpec struct {
	Name      string `json:"name"`
	Widget    Widget `json:"widget"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
}

type Form interface {
	Fields() []FieldSpec
}

// FieldNames 按声明顺序返回字段名
func FieldNames(f Form) []string {
	specs := f.Fields()
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}

func FieldByName(f Form, name string) (FieldSpec, bool) {
	for _, s := range f.Fields() {
		if s.Name == name {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// Schemas 所有对外暴露的表单
func Schemas() map[string]Form {
	return map[string]Form{
		"register":      RegisterForm{},
		"login":         LoginForm{},
		"skill":         SkillForm{},
		"goal":          GoalForm{},
		"goal_edit":     GoalEditForm{},
		"progress":      ProgressForm{},
		"resource":      ResourceForm{},
		"profile":       ProfileForm{},
		"admin_account": AdminAccountForm{},
	}
}

type RegisterForm struct {
	Username  string `json:"username" form:"username" validate:"required,max=150,username"`
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Password1 string `json:"password1" form:"password1" validate:"required"`
	Password2 string `json:"password2" form:"password2" validate:"required,eqfield=Password1,pwdminlen,pwdnotallnum"`
}

func (RegisterForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "username", Widget: WidgetText, Required: true, MaxLength: 150},
		{Name: "email", Widget: WidgetEmail, Required: true, MaxLength: 254},
		{Name: "password1", Widget: WidgetPassword, Required: true},
		{Name: "password2", Widget: WidgetPassword, Required: true},
	}
}

func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

type LoginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (LoginForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "username", Widget: WidgetText, Required: true},
		{Name: "password", Widget: WidgetPassword, Required: true},
	}
}

// SkillForm 不包含 owner，归属总是由服务端设置
type SkillForm struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
	Category    string `json:"category" form:"category" validate:"required,max=50"`
	Difficulty  string `json:"difficulty" form:"difficulty" validate:"required,max=10"`
}

func (SkillForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "name", Widget: WidgetText, Required: true, MaxLength: 100},
		{Name: "description", Widget: WidgetTextarea, Required: true},
		{Name: "category", Widget: WidgetText, Required: true, MaxLength: 50},
		{Name: "difficulty", Widget: WidgetText, Required: true, MaxLength: 10},
	}
}

// GoalForm 创建目标；skill 的可选项限定为当前账号的技能
type GoalForm struct {
	SkillID     *uint  `json:"skill" form:"skill" validate:"required"`
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
	TargetDate  string `json:"target_date" form:"target_date" validate:"required,datetime=2006-01-02"`
	Progress    *int   `json:"progress" form:"progress" validate:"required,min=0,max=100"`
}

func (GoalForm) Fields() []FieldSpec {
	return append([]FieldSpec{{Name: "skill", Widget: WidgetSelect, Required: true}}, GoalEditForm{}.Fields()...)
}

func (f GoalForm) Date() time.Time {
	return parseDate(f.TargetDate)
}

func (f GoalForm) Edit() GoalEditForm {
	return GoalEditForm{
		Name:        f.Name,
		Description: f.Description,
		TargetDate:  f.TargetDate,
		Progress:    f.Progress,
	}
}

// GoalEditForm 编辑目标，不允许改所属技能
type GoalEditForm struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
	TargetDate  string `json:"target_date" form:"target_date" validate:"required,datetime=2006-01-02"`
	Progress    *int   `json:"progress" form:"progress" validate:"required,min=0,max=100"`
}

func (GoalEditForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "name", Widget: WidgetText, Required: true, MaxLength: 100},
		{Name: "description", Widget: WidgetTextarea, Required: true},
		{Name: "target_date", Widget: WidgetDate, Required: true},
		{Name: "progress", Widget: WidgetNumber, Required: true},
	}
}

func (f GoalEditForm) Date() time.Time {
	return parseDate(f.TargetDate)
}

// ProgressForm goal 通常来自 ?goal_id= 查询参数，对应隐藏字段
type ProgressForm struct {
	GoalID     *uint  `json:"goal" form:"goal"`
	Progress   *int   `json:"progress" form:"progress" validate:"required,min=-100,max=100"`
	UpdateText string `json:"update_text" form:"update_text" validate:"required"`
}

func (ProgressForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "goal", Widget: WidgetHidden},
		{Name: "progress", Widget: WidgetNumber, Required: true},
		{Name: "update_text", Widget: WidgetTextarea, Required: true},
	}
}

type ResourceForm struct {
	SkillID *uint  `json:"skill" form:"skill" validate:"required"`
	Title   string `json:"title" form:"title" validate:"required,max=100"`
	Link    string `json:"link" form:"link" validate:"required,url,max=200"`
}

func (ResourceForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "skill", Widget: WidgetSelect, Required: true},
		{Name: "title", Widget: WidgetText, Required: true, MaxLength: 100},
		{Name: "link", Widget: WidgetURL, Required: true, MaxLength: 200},
	}
}

// ProfileForm 头像以 multipart 文件上传，不在结构体里
type ProfileForm struct {
	Bio *string `json:"bio" form:"bio" validate:"omitempty,bio"`
}

func (ProfileForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "bio", Widget: WidgetTextarea},
		{Name: "avatar", Widget: WidgetFile},
	}
}

// AdminAccountForm 为空的字段保持原值；groups 为 nil 表示不修改成员关系
type AdminAccountForm struct {
	IsStaff     *bool  `json:"is_staff" form:"is_staff"`
	IsSuperuser *bool  `json:"is_superuser" form:"is_superuser"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
	Groups      []uint `json:"groups" form:"groups"`
}

func (AdminAccountForm) Fields() []FieldSpec {
	return []FieldSpec{
		{Name: "is_staff", Widget: WidgetCheckbox},
		{Name: "is_superuser", Widget: WidgetCheckbox},
		{Name: "is_active", Widget: WidgetCheckbox},
		{Name: "groups", Widget: WidgetMultiSelect},
	}
}

// NewAccountForm 管理端直接建号
type NewAccountForm struct {
	Username    string `json:"username" validate:"required,max=150,username"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Password    string `json:"password" validate:"required,pwdminlen,pwdnotallnum"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type ApproveForm struct {
	Approved *bool `json:"approved" form:"approved" validate:"required"`
}

func parseDate(s string) time.Time {
	t, _ := time.ParseInLocation(model.DateLayout, s, time.UTC)
	return t
}
