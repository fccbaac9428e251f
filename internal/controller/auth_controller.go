package controller

import (
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService    *service.AuthService
	AccountService *service.AccountService
}

func NewAuthController(authService *service.AuthService, accountService *service.AccountService) *AuthController {
	return &AuthController{
		AuthService:    authService,
		AccountService: accountService,
	}
}

// Register godoc
// @Summary 注册新账号
// @Description 创建账号，同时创建空的个人资料
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body validation.RegisterForm true "注册信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response{data=util.ErrorsBody} "表单校验失败"
// @Failure 409 {object} util.Response{data=util.ErrorsBody} "用户名或邮箱已存在"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var form validation.RegisterForm
	if !bindForm(ctx, &form) {
		return
	}

	user, err := c.AccountService.Register(ctx.Request.Context(), form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	monitoring.AccountsCreatedTotal.WithLabelValues("register").Inc()
	util.Created(ctx, user)
}

// Login godoc
// @Summary 登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body validation.LoginForm true "用户名和密码"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 400 {object} util.Response{data=util.ErrorsBody} "用户名或密码错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var form validation.LoginForm
	if !bindForm(ctx, &form) {
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), form)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Logout godoc
// @Summary 注销当前 token
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := c.AuthService.Logout(ctx.Request.Context(), user); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Me godoc
// @Summary 当前账号
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	account, err := c.AuthService.CurrentUser(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, account)
}
