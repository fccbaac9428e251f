package controller

import (
	"errors"
	"net/http"

	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary 我的主页
// @Description 资料、技能、目标、进度记录、全部资源，以及按技能分组的已审核资源
// @Tags 个人资料
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/profile [get]
func (c *ProfileController) View(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	view, err := c.ProfileService.View(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 修改我的资料
// @Description multipart 表单：bio，可选 avatar 文件。修改后需要重新审核
// @Tags 个人资料
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param bio formData string false "简介，至少 10 个字符"
// @Param avatar formData file false "头像"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 400 {object} util.Response{data=util.ErrorsBody}
// @Router /api/profile [put]
func (c *ProfileController) Edit(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var form validation.ProfileForm
	if !bindForm(ctx, &form) {
		return
	}

	var avatar *service.AvatarUpload
	file, err := ctx.FormFile("avatar")
	switch {
	case err == nil:
		f, err := file.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer f.Close()
		avatar = &service.AvatarUpload{
			Filename: file.Filename,
			Size:     file.Size,
			Reader:   f,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.Edit(ctx.Request.Context(), user.UserID, form, avatar)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary 公开主页
// @Description 只有审核通过的资料可见，只展示已审核资源
// @Tags 个人资料
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} util.Response{data=service.PublicProfileView}
// @Failure 404 {object} util.Response
// @Router /api/profiles/{username} [get]
func (c *ProfileController) Public(ctx *gin.Context) {
	view, err := c.ProfileService.Public(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
