package app

import (
	"smart_edu_backend/docs"
	"smart_edu_backend/internal/config"
	"smart_edu_backend/internal/middleware"
	"smart_edu_backend/internal/model"
	"smart_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 公共路由(无需登录)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/subjects", c.subject.List)
		authGroup.GET("/subjects/:id", c.subject.Get)

		// 教师相关接口
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/subjects", c.subject.Create)
			teacher.DELETE("/subjects/:id", c.subject.Delete)

			teacher.POST("/questions", c.question.Create)
			teacher.GET("/questions", c.question.List)
			teacher.GET("/questions/export", c.question.Export)
			teacher.GET("/questions/:id", c.question.Get)
			teacher.DELETE("/questions/:id", c.question.Delete)

			teacher.POST("/generate", c.generation.Generate)
			teacher.POST("/papers/assemble", c.paper.Assemble)
		}
	}
}
