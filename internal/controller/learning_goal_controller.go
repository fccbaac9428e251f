package controller

import (
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// LearningGoalController 处理学习目标的API请求
type LearningGoalController struct {
	GoalService     *service.GoalService
	ProgressService *service.ProgressService
}

func NewLearningGoalController(goalService *service.GoalService, progressService *service.ProgressService) *LearningGoalController {
	return &LearningGoalController{
		GoalService:     goalService,
		ProgressService: progressService,
	}
}

// @Summary 创建学习目标
// @Description skill 可以放在请求体，也可以用 ?skill_id= 预设
// @Tags 学习目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param skill_id query int false "技能ID"
// @Param goal body validation.GoalForm true "学习目标信息"
// @Success 201 {object} util.Response{data=model.LearningGoal}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/goals [post]
func (c *LearningGoalController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var form validation.GoalForm
	if !bindForm(ctx, &form) {
		return
	}
	if form.SkillID == nil {
		form.SkillID = util.ParseOptionalUint(ctx.Query("skill_id"))
	}

	goal, err := c.GoalService.Create(ctx.Request.Context(), user.UserID, form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, goal)
}

// @Summary 我的学习目标
// @Tags 学习目标
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningGoal}
// @Router /api/goals [get]
func (c *LearningGoalController) List(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	goals, err := c.GoalService.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, goals)
}

// @Summary 学习目标详情
// @Tags 学习目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Success 200 {object} util.Response{data=model.LearningGoal}
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [get]
func (c *LearningGoalController) Get(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	goal, err := c.GoalService.Get(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, goal)
}

// @Summary 修改学习目标
// @Description 已有进度记录时 progress 由记录汇总得出
// @Tags 学习目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Param goal body validation.GoalEditForm true "学习目标信息"
// @Success 200 {object} util.Response{data=model.LearningGoal}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/goals/{id} [put]
func (c *LearningGoalController) Update(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var form validation.GoalEditForm
	if !bindForm(ctx, &form) {
		return
	}

	goal, err := c.GoalService.Update(ctx.Request.Context(), user.UserID, id, form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, goal)
}

// @Summary 删除学习目标
// @Tags 学习目标
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Success 204
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/goals/{id} [delete]
func (c *LearningGoalController) Delete(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.GoalService.Delete(ctx.Request.Context(), user.UserID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.NoContent(ctx)
}

// @Summary 目标的进度记录
// @Tags 学习目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "目标ID"
// @Success 200 {object} util.Response{data=[]model.ProgressUpdate}
// @Router /api/goals/{id}/progress [get]
func (c *LearningGoalController) ListProgress(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	updates, err := c.ProgressService.ListForGoal(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, updates)
}
