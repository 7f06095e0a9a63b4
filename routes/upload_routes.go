package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/warrenmedia/api-go/controllers"
)

func SetupUploadRoutes(r *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := r.Group("/uploads")
	{
		// Presigned R2 URL for a creator post image
		upload.POST("/image", uploadController.GetImageUploadURL)

		// Direct video upload through the video pipeline
		upload.POST("/video", uploadController.CreateVideoUpload)
		upload.GET("/video/:uploadId/status", uploadController.GetVideoUploadStatus)
	}
}
