package controller

import (
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

// AdminController 管理端：账号、分组、资源与资料审核、技能和目标列表。
// 每个路由都由 RequirePermission 检查对应权限。
type AdminController struct {
	AccountService    *service.AccountService
	PermissionService *service.PermissionService
	ResourceService   *service.ResourceService
	ProfileService    *service.ProfileService
	SkillService      *service.SkillService
	GoalService       *service.GoalService
}

func NewAdminController(
	accountService *service.AccountService,
	permissionService *service.PermissionService,
	resourceService *service.ResourceService,
	profileService *service.ProfileService,
	skillService *service.SkillService,
	goalService *service.GoalService,
) *AdminController {
	return &AdminController{
		AccountService:    accountService,
		PermissionService: permissionService,
		ResourceService:   resourceService,
		ProfileService:    profileService,
		SkillService:      skillService,
		GoalService:       goalService,
	}
}

// ListUsers godoc
// @Summary 账号列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param search query string false "用户名或邮箱"
// @Param is_staff query bool false "是否 staff"
// @Param is_superuser query bool false "是否 superuser"
// @Param is_active query bool false "是否启用"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, limit := pagination(ctx)
	filter := repository.UserFilter{
		Search:      ctx.Query("search"),
		IsStaff:     util.ParseOptionalBool(ctx.Query("is_staff")),
		IsSuperuser: util.ParseOptionalBool(ctx.Query("is_superuser")),
		IsActive:    util.ParseOptionalBool(ctx.Query("is_active")),
	}

	users, total, err := c.AccountService.List(ctx.Request.Context(), page, limit, filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Paged(ctx, users, total, page, limit)
}

// CreateUser godoc
// @Summary 创建账号
// @Description superuser 自动加入 SuperAdmin，staff 自动加入 StaffAdmin
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body validation.NewAccountForm true "账号信息"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Failure 409 {object} util.Response{data=util.ErrorsBody}
// @Router /api/admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var form validation.NewAccountForm
	if !bindForm(ctx, &form) {
		return
	}

	user, err := c.AccountService.CreateAccount(ctx.Request.Context(), form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	monitoring.AccountsCreatedTotal.WithLabelValues("admin").Inc()
	util.Created(ctx, user)
}

// GetUser godoc
// @Summary 账号详情
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "账号ID"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id} [get]
func (c *AdminController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	user, err := c.AccountService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary 修改账号标志与分组
// @Description 非 staff 且非 superuser 的账号不能加入 SuperAdmin 或 StaffAdmin
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "账号ID"
// @Param body body validation.AdminAccountForm true "字段为空表示不修改"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/admin/users/{id} [patch]
func (c *AdminController) UpdateUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var form validation.AdminAccountForm
	if !bindForm(ctx, &form) {
		return
	}

	user, err := c.AccountService.AdminUpdate(ctx.Request.Context(), id, form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary 删除账号
// @Description 级联删除该账号的技能、目标、进度记录和资源
// @Tags 管理
// @Security ApiKeyAuth
// @Param id path int true "账号ID"
// @Success 204
// @Router /api/admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.AccountService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.NoContent(ctx)
}

// ListGroups godoc
// @Summary 分组及其权限
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Group}
// @Router /api/admin/groups [get]
func (c *AdminController) ListGroups(ctx *gin.Context) {
	groups, err := c.PermissionService.ListGroups(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, groups)
}

// ListResources godoc
// @Summary 资源列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param approved query bool false "按审核状态筛选"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/resources [get]
func (c *AdminController) ListResources(ctx *gin.Context) {
	page, limit := pagination(ctx)

	resources, total, err := c.ResourceService.AdminList(ctx.Request.Context(), page, limit, util.ParseOptionalBool(ctx.Query("approved")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Paged(ctx, resources, total, page, limit)
}

// ApproveResource godoc
// @Summary 审核资源
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "资源ID"
// @Param body body validation.ApproveForm true "approved"
// @Success 200 {object} util.Response{data=model.Resource}
// @Router /api/admin/resources/{id}/approval [put]
func (c *AdminController) ApproveResource(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var form validation.ApproveForm
	if !bindForm(ctx, &form) {
		return
	}
	if err := validation.Validate(form); err != nil {
		util.HandleError(ctx, err)
		return
	}

	resource, err := c.ResourceService.SetApproved(ctx.Request.Context(), id, *form.Approved)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	monitoring.RecordModeration("resource", *form.Approved)
	util.Success(ctx, resource)
}

// DeleteResource godoc
// @Summary 删除资源
// @Tags 管理
// @Security ApiKeyAuth
// @Param id path int true "资源ID"
// @Success 204
// @Router /api/admin/resources/{id} [delete]
func (c *AdminController) DeleteResource(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.ResourceService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.NoContent(ctx)
}

// ListProfiles godoc
// @Summary 资料列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param approved query bool false "按审核状态筛选"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/profiles [get]
func (c *AdminController) ListProfiles(ctx *gin.Context) {
	page, limit := pagination(ctx)

	profiles, total, err := c.ProfileService.AdminList(ctx.Request.Context(), page, limit, util.ParseOptionalBool(ctx.Query("approved")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Paged(ctx, profiles, total, page, limit)
}

// ApproveProfile godoc
// @Summary 审核资料
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "资料ID"
// @Param body body validation.ApproveForm true "approved"
// @Success 200 {object} util.Response{data=model.Profile}
// @Router /api/admin/profiles/{id}/approval [put]
func (c *AdminController) ApproveProfile(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var form validation.ApproveForm
	if !bindForm(ctx, &form) {
		return
	}
	if err := validation.Validate(form); err != nil {
		util.HandleError(ctx, err)
		return
	}

	profile, err := c.ProfileService.SetApproved(ctx.Request.Context(), id, *form.Approved)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	monitoring.RecordModeration("profile", *form.Approved)
	util.Success(ctx, profile)
}

// ListSkills godoc
// @Summary 技能列表
// @Description 按名称排序，可按分类、难度筛选，按名称或描述搜索
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "分类"
// @Param difficulty query string false "难度"
// @Param search query string false "名称或描述"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/skills [get]
func (c *AdminController) ListSkills(ctx *gin.Context) {
	page, limit := pagination(ctx)
	filter := repository.SkillFilter{
		Category:   ctx.Query("category"),
		Difficulty: ctx.Query("difficulty"),
		Search:     ctx.Query("search"),
	}

	skills, total, err := c.SkillService.AdminList(ctx.Request.Context(), page, limit, filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Paged(ctx, skills, total, page, limit)
}

// ListGoals godoc
// @Summary 目标列表
// @Description 按目标日期排序
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param skill_id query int false "技能ID"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/goals [get]
func (c *AdminController) ListGoals(ctx *gin.Context) {
	page, limit := pagination(ctx)

	goals, total, err := c.GoalService.AdminList(ctx.Request.Context(), page, limit, util.MustParseUint(ctx.Query("skill_id")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Paged(ctx, goals, total, page, limit)
}
