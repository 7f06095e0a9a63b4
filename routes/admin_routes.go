package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warrenmedia/api-go/controllers"
)

func SetupAdminRoutes(admin *gin.RouterGroup, moderationController *controllers.ModerationController, flagController *controllers.FlagController, creatorController *controllers.CreatorController) {
	reports := admin.Group("/reports")
	{
		reports.GET("", moderationController.ListReports)
		reports.POST("/:id/hide", moderationController.HideContent)
		reports.POST("/:id/ban", moderationController.BanActor)
		reports.POST("/:id/dismiss", moderationController.DismissReport)
	}

	bans := admin.Group("/bans")
	{
		bans.GET("", moderationController.ListBans)
		bans.POST("", moderationController.IssueBan)
		bans.DELETE("/:id", moderationController.RemoveBan)
	}

	flags := admin.Group("/flags")
	{
		flags.GET("", flagController.ListFlags)
		flags.PUT("/:name", flagController.SetFlag)
	}

	creators := admin.Group("/creators")
	{
		creators.GET("", creatorController.ListApplications)
		creators.PUT("/:id", creatorController.Review)
	}
}
