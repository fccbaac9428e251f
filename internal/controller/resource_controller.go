package controller

import (
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
}

func NewResourceController(resourceService *service.ResourceService) *ResourceController {
	return &ResourceController{ResourceService: resourceService}
}

// @Summary 提交资源
// @Description 新资源需要审核后才会公开
// @Tags 资源
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param resource body validation.ResourceForm true "资源信息"
// @Success 201 {object} util.Response{data=model.Resource}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/resources [post]
func (c *ResourceController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var form validation.ResourceForm
	if !bindForm(ctx, &form) {
		return
	}

	resource, err := c.ResourceService.Create(ctx.Request.Context(), user.UserID, form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	monitoring.ResourcesSubmittedTotal.Inc()
	util.Created(ctx, resource)
}

// @Summary 我的资源
// @Description 包括未审核的资源
// @Tags 资源
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Resource}
// @Router /api/resources [get]
func (c *ResourceController) List(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	resources, err := c.ResourceService.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, resources)
}
