package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warrenmedia/api-go/controllers"
)

func SetupCreatorRoutes(protected *gin.RouterGroup, creatorController *controllers.CreatorController) {
	creators := protected.Group("/creators")
	{
		creators.POST("/apply", creatorController.Apply)
		creators.GET("/me", creatorController.GetMine)
	}
}
