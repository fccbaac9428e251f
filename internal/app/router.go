package app

import (
	"time"

	"skill_tracker_backend/docs"
	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/middleware"
	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/pkg/monitoring"
	"skill_tracker_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.services.blacklist, a.services.account))
	{
		a.registerAccountRoutes(authGroup, c)
		a.registerTrackerRoutes(authGroup, c)
	}

	// 3. 管理端，按权限码逐个校验
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		credentials := a.credentialLimiter()
		public.POST("/register", credentials, c.auth.Register)
		public.POST("/login", credentials, c.auth.Login)

		public.GET("/forms", c.form.List)
		public.GET("/forms/:name", c.form.Get)

		public.GET("/profiles/:username", c.profile.Public)
	}
}

// credentialLimiter 登录和注册单独计数，防止撞库
func (a *App) credentialLimiter() gin.HandlerFunc {
	rl := a.Config.RateLimit
	if rl.AuthMaxRequests <= 0 || rl.AuthWindowMinutes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return security.RateLimiter(rl.AuthMaxRequests, time.Duration(rl.AuthWindowMinutes)*time.Minute, security.ByClientIPAndRoute)
}

func (a *App) registerAccountRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/logout", c.auth.Logout)
	group.GET("/me", c.auth.Me)
	group.GET("/dashboard", c.dashboard.GetDashboard)

	group.GET("/profile", c.profile.View)
	group.PUT("/profile", c.profile.Edit)
}

func (a *App) registerTrackerRoutes(group *gin.RouterGroup, c *controllers) {
	skills := group.Group("/skills")
	{
		skills.GET("", c.skill.List)
		skills.POST("", c.skill.Create)
		skills.GET("/choices", c.skill.Choices)
		skills.GET("/:id", c.skill.Get)
		skills.PUT("/:id", c.skill.Update)
		skills.DELETE("/:id", c.skill.Delete)
	}

	goals := group.Group("/goals")
	{
		goals.GET("", c.learningGoal.List)
		goals.POST("", c.learningGoal.Create)
		goals.GET("/:id", c.learningGoal.Get)
		goals.PUT("/:id", c.learningGoal.Update)
		goals.DELETE("/:id", c.learningGoal.Delete)
		goals.GET("/:id/progress", c.learningGoal.ListProgress)
	}

	group.POST("/progress", c.progress.Create)

	group.GET("/resources", c.resource.List)
	group.POST("/resources", c.resource.Create)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	perm := a.services.permission
	require := func(action model.Action, entity model.EntityType) gin.HandlerFunc {
		return middleware.RequirePermission(perm, action, entity)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg, a.services.blacklist, a.services.account))
	{
		admin.GET("/users", require(model.ActionView, model.EntityUser), c.admin.ListUsers)
		admin.POST("/users", require(model.ActionAdd, model.EntityUser), c.admin.CreateUser)
		admin.GET("/users/:id", require(model.ActionView, model.EntityUser), c.admin.GetUser)
		admin.PATCH("/users/:id", require(model.ActionChange, model.EntityUser), c.admin.UpdateUser)
		admin.DELETE("/users/:id", require(model.ActionDelete, model.EntityUser), c.admin.DeleteUser)

		admin.GET("/groups", require(model.ActionView, model.EntityGroup), c.admin.ListGroups)

		admin.GET("/resources", require(model.ActionView, model.EntityResource), c.admin.ListResources)
		admin.PUT("/resources/:id/approval", require(model.ActionChange, model.EntityResource), c.admin.ApproveResource)
		admin.DELETE("/resources/:id", require(model.ActionDelete, model.EntityResource), c.admin.DeleteResource)

		admin.GET("/profiles", require(model.ActionView, model.EntityProfile), c.admin.ListProfiles)
		admin.PUT("/profiles/:id/approval", require(model.ActionChange, model.EntityProfile), c.admin.ApproveProfile)

		admin.GET("/skills", require(model.ActionView, model.EntitySkill), c.admin.ListSkills)
		admin.GET("/goals", require(model.ActionView, model.EntityLearningGoal), c.admin.ListGoals)
	}
}
