package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

type CommentController struct {
	Comments *services.CommentService
	Log      logrus.FieldLogger
}

func NewCommentController(comments *services.CommentService, log logrus.FieldLogger) *CommentController {
	return &CommentController{Comments: comments, Log: log}
}

// GetComments godoc
// @Summary List comments for a title
// @Tags comments
// @Produce json
// @Param titleId query string true "Title ID"
// @Param episodeId query string false "Episode ID"
// @Success 200 {object} StandardResponse
// @Router /comments [get]
func (cc *CommentController) GetComments(c *gin.Context) {
	query := services.ListCommentsQuery{
		TitleID:   c.Query("titleId"),
		EpisodeID: c.Query("episodeId"),
		ViewerID:  c.Query("userId"),
	}
	if user := utils.GetUser(c); user != nil {
		query.ViewerID = user.UserID
	}

	comments, err := cc.Comments.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, cc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"comments": comments},
	})
}

// CreateComment godoc
// @Summary Post a comment
// @Tags comments
// @Accept json
// @Produce json
// @Success 201 {object} StandardResponse
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /comments [post]
func (cc *CommentController) CreateComment(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	comment, err := cc.Comments.Create(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, cc.Log, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    gin.H{"comment": comment},
		Message: "Comment posted",
	})
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	user := utils.GetUser(c)

	if err := cc.Comments.Delete(c.Request.Context(), user.UserID, c.Query("id")); err != nil {
		respondError(c, cc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Comment deleted",
	})
}
