package routes

import (
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/config"
	"github.com/warrenmedia/api-go/controllers"
	"github.com/warrenmedia/api-go/metrics"
	"github.com/warrenmedia/api-go/middleware"
	"github.com/warrenmedia/api-go/services"
	"gorm.io/gorm"
)

// Dependencies are the process-wide collaborators the routes are built on.
// Pipeline may be nil when video uploads are not configured.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.AppConfig
	Log      *logrus.Logger
	Metrics  *metrics.Metrics
	Limiter  services.Limiter
	Pipeline services.VideoPipeline
	R2Client *s3.Client
	R2Config *config.R2Config
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	db, log, m := deps.DB, deps.Log, deps.Metrics

	// Initialize services
	rate := services.NewRateGate(deps.Limiter, deps.Config, log, m)
	bans := services.NewBanService(db)
	flags := services.NewFlagGate(db, deps.Config.FlagCacheTTL, log, m)
	creators := services.NewCreatorService(db)
	reports := services.NewReportService(db, rate)
	posts := services.NewCreatorPostService(db, flags, creators, bans, rate)
	admins := services.NewAdminDirectory(db)

	// Initialize controllers
	commentController := controllers.NewCommentController(services.NewCommentService(db, bans, rate), log)
	interactionController := controllers.NewInteractionController(services.NewReactionService(db, bans, rate), reports, log)
	postController := controllers.NewPostController(posts, log)
	creatorController := controllers.NewCreatorController(creators, log)
	uploadController := controllers.NewUploadController(deps.R2Client, deps.R2Config,
		services.NewUploadService(db, deps.Pipeline, flags, creators, rate), posts, log)
	authController := controllers.NewAuthController(services.NewAuthAttemptGuard(db, deps.Config, log), log)
	userController := controllers.NewUserController(services.NewProfileService(db), log)
	flagController := controllers.NewFlagController(flags, log)
	moderationController := controllers.NewModerationController(reports, services.NewDispatcher(db, log, m), bans, log)

	r.GET("/healthz", healthCheck(db))
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// Public routes
	public := r.Group("/api")
	public.Use(middleware.OptionalAuth(deps.Config.JWTSecret))
	{
		public.GET("/comments", commentController.GetComments)
		public.GET("/creator-posts", postController.GetPosts)
		public.GET("/flags/:name", flagController.GetFlag)
		public.POST("/auth/rate-limit", authController.CheckRateLimit)
		public.POST("/auth/attempts", middleware.ServiceKey(deps.Config.AuthServiceKey), authController.RecordAttempt)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(deps.Config.JWTSecret))
	{
		protected.GET("/profile", userController.GetProfile)
		protected.PUT("/profile", userController.UpdateProfile)

		// Setup other routes within the protected group
		SetupInteractionRoutes(protected, commentController, interactionController)
		SetupPostRoutes(protected, postController)
		SetupCreatorRoutes(protected, creatorController)
		SetupUploadRoutes(protected, uploadController)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(deps.Config.JWTSecret), middleware.AdminGuard(admins, log))
	SetupAdminRoutes(admin, moderationController, flagController, creatorController)
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
