package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vectormag-cms/config"
	"vectormag-cms/helper"
	"vectormag-cms/logger"
	"vectormag-cms/middleware"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth       services.AuthService
	Articles   services.ArticleService
	Tags       services.TagService
	Categories services.CategoryService
	Subscriber services.SubscriberService
	Media      services.MediaService
	Analytics  services.AnalyticsService
}

// NewRouter wires every route onto a fresh engine.
func NewRouter(svc Services, h *helper.HTTPHelper, server config.ServerConfig, uploads config.UploadConfig) *gin.Engine {
	authHandler := NewAuthHandler(svc.Auth, h)
	articleHandler := NewArticleHandler(svc.Articles, h)
	tagHandler := NewTagHandler(svc.Tags, h)
	categoryHandler := NewCategoryHandler(svc.Categories, h)
	subscriberHandler := NewSubscriberHandler(svc.Subscriber, h)
	uploadHandler := NewUploadHandler(svc.Media, h)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics, h)
	previewHandler := NewPreviewHandler(svc.Articles, h, server.AllowedOrigins)

	router := gin.New()
	router.Use(logger.GinMiddleware(h.Logger), gin.Recovery(), cors(server.AllowedOrigins))
	router.MaxMultipartMemory = uploads.MaxBytes()

	if uploads.BaseURL != "" && uploads.BaseURL[0] == '/' {
		router.Static(uploads.BaseURL, uploads.Dir)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	managers := middleware.RequireRole(h, models.RoleEditor, models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(svc.Auth, h))
		{
			protected.GET("/profile", authHandler.GetProfile)

			articles := protected.Group("/articles")
			{
				articles.POST("", articleHandler.CreateArticle)
				articles.GET("", articleHandler.GetArticles)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.PUT("/:id", articleHandler.UpdateArticle)
				articles.DELETE("/:id", articleHandler.DeleteArticle)
				articles.POST("/:id/blocks", articleHandler.ApplyBlockOps)
				articles.GET("/:id/preview", articleHandler.PreviewArticle)
				articles.GET("/:id/export", articleHandler.ExportArticle)
				articles.GET("/:id/revisions", articleHandler.GetRevisions)
				articles.POST("/:id/revisions/:rev/restore", articleHandler.RestoreRevision)
			}

			protected.POST("/preview", previewHandler.Preview)
			protected.GET("/preview/live", previewHandler.Live)
			protected.POST("/uploads", uploadHandler.UploadImage)

			categories := protected.Group("/categories")
			{
				categories.POST("", managers, categoryHandler.CreateCategory)
				categories.DELETE("/:id", managers, categoryHandler.DeleteCategory)
			}

			tags := protected.Group("/tags")
			{
				tags.POST("", managers, tagHandler.CreateTag)
			}

			subscribers := protected.Group("/subscribers", managers)
			{
				subscribers.GET("", subscriberHandler.GetSubscribers)
				subscribers.DELETE("/:id", subscriberHandler.DeleteSubscriber)
			}

			protected.GET("/analytics/dashboard", managers, analyticsHandler.Dashboard)
		}

		v1.GET("/categories", categoryHandler.GetCategories)
		v1.GET("/tags", tagHandler.GetTags)
		v1.GET("/tags/:id", tagHandler.GetTag)

		public := v1.Group("/public")
		{
			public.GET("/articles", articleHandler.GetPublicArticles)
			public.GET("/articles/:slug", articleHandler.GetPublicArticle)
			public.POST("/subscribe", subscriberHandler.Subscribe)
			public.POST("/track", analyticsHandler.Track)
		}
	}

	return router
}

func cors(allowed []string) gin.HandlerFunc {
	allowAll := false
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && set[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
