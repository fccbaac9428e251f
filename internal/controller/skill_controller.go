package controller

import (
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// @Summary 我的技能
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Skill}
// @Router /api/skills [get]
func (c *SkillController) List(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	skills, err := c.SkillService.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, skills)
}

// @Summary 创建技能
// @Tags 技能
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param skill body validation.SkillForm true "技能信息"
// @Success 201 {object} util.Response{data=model.Skill}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/skills [post]
func (c *SkillController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var form validation.SkillForm
	if !bindForm(ctx, &form) {
		return
	}

	skill, err := c.SkillService.Create(ctx.Request.Context(), user.UserID, form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, skill)
}

// @Summary 技能详情
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response{data=model.Skill}
// @Failure 404 {object} util.Response
// @Router /api/skills/{id} [get]
func (c *SkillController) Get(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	skill, err := c.SkillService.Get(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, skill)
}

// @Summary 修改技能
// @Tags 技能
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "技能ID"
// @Param skill body validation.SkillForm true "技能信息"
// @Success 200 {object} util.Response{data=model.Skill}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/skills/{id} [put]
func (c *SkillController) Update(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var form validation.SkillForm
	if !bindForm(ctx, &form) {
		return
	}

	skill, err := c.SkillService.Update(ctx.Request.Context(), user.UserID, id, form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, skill)
}

// @Summary 删除技能
// @Description 同时删除其下的目标、进度记录和资源
// @Tags 技能
// @Security ApiKeyAuth
// @Param id path int true "技能ID"
// @Success 204
// @Router /api/skills/{id} [delete]
func (c *SkillController) Delete(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.SkillService.Delete(ctx.Request.Context(), user.UserID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.NoContent(ctx)
}

// @Summary 技能下拉选项
// @Description 目标和资源表单中 skill 字段的可选值
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.SkillChoice}
// @Router /api/skills/choices [get]
func (c *SkillController) Choices(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	choices, err := c.SkillService.Choices(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, choices)
}
