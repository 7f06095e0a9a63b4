package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warrenmedia/api-go/controllers"
)

func SetupPostRoutes(protected *gin.RouterGroup, postController *controllers.PostController) {
	protected.POST("/creator-posts", postController.CreatePost)
}
