package controller

import (
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 记录进度
// @Description 目标通过 ?goal_id= 指定（也可放在请求体的 goal 字段）。目标进度为全部记录之和，上限 100
// @Tags 进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param goal_id query int false "目标ID"
// @Param body body validation.ProgressForm true "进度增量与说明"
// @Success 201 {object} util.Response{data=service.ProgressResult}
// @Failure 400 {object} util.Response{data=util.ErrorsBody} "Goal ID is required. / Invalid goal."
// @Router /api/progress [post]
func (c *ProgressController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var form validation.ProgressForm
	if !bindForm(ctx, &form) {
		return
	}

	result, err := c.ProgressService.Record(ctx.Request.Context(), user.UserID, util.ParseOptionalUint(ctx.Query("goal_id")), form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	monitoring.ProgressUpdatesTotal.Inc()
	monitoring.GoalProgress.Observe(float64(result.Goal.Progress))
	util.Created(ctx, result)
}
