package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

type PostController struct {
	Posts *services.CreatorPostService
	Log   logrus.FieldLogger
}

func NewPostController(posts *services.CreatorPostService, log logrus.FieldLogger) *PostController {
	return &PostController{Posts: posts, Log: log}
}

func (pc *PostController) GetPosts(c *gin.Context) {
	posts, err := pc.Posts.List(c.Request.Context(), services.ListPostsQuery{
		CreatorID: c.Query("creatorId"),
		TitleID:   c.Query("titleId"),
	})
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"posts": posts},
	})
}

func (pc *PostController) CreatePost(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	post, err := pc.Posts.Create(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    gin.H{"post": post},
		Message: "Post created successfully",
	})
}
