package app

import (
	"edu_core_backend/docs"
	"edu_core_backend/internal/middleware"
	"edu_core_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 存活与就绪分开：/health 不访问数据库
	router.GET("/health", c.health.HealthCheck)
	router.GET("/ready", c.health.Ready)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth, a.log))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 可选认证：匿名可评估，登录用户的结果归属本人
		public.POST("/assessments", middleware.TryAuthMiddleware(a.services.auth, a.log), c.assessment.Assess)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/users/me", c.auth.GetProfile)
	rg.PUT("/users/me", c.auth.UpdateProfile)
	rg.PUT("/users/me/password", c.auth.ChangePassword)

	rg.GET("/assignments", c.assignment.ListAssignments)
	rg.POST("/assignments/:id/submit", c.assignment.Submit)

	rg.GET("/assessments", c.assessment.ListMine)

	rg.POST("/progress", c.progress.Record)
	rg.GET("/progress", c.progress.List)

	rg.POST("/files/upload", c.file.Upload)
	rg.GET("/files", c.file.List)

	rg.GET("/virtual-tutor/recommendations", c.assistant.Recommendations)
	rg.POST("/assistant/query", c.assistant.Query)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("")
	instructor.Use(middleware.RequireCapability(middleware.CapInstructor, a.log))
	{
		instructor.POST("/assignments", c.assignment.CreateAssignment)
		instructor.POST("/assignments/:id/grade", c.assignment.Grade)
		instructor.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireCapability(middleware.CapSuperuser, a.log))
	{
		admin.PATCH("/users/:id/deactivate", c.user.Deactivate)
	}
}
