package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warrenmedia/api-go/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, commentController *controllers.CommentController, interactionController *controllers.InteractionController) {
	comments := protected.Group("/comments")
	{
		comments.POST("", commentController.CreateComment)
		comments.DELETE("", commentController.DeleteComment)
		comments.POST("/react", interactionController.ReactToComment)
	}

	protected.POST("/reports", interactionController.CreateReport)
}
