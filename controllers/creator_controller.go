package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

type CreatorController struct {
	Creators *services.CreatorService
	Log      logrus.FieldLogger
}

func NewCreatorController(creators *services.CreatorService, log logrus.FieldLogger) *CreatorController {
	return &CreatorController{Creators: creators, Log: log}
}

func (cc *CreatorController) Apply(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.CreatorApplicationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	creator, err := cc.Creators.Apply(c.Request.Context(), user.UserID, user.Email, req)
	if err != nil {
		respondError(c, cc.Log, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    gin.H{"creator": creator},
		Message: "Application submitted",
	})
}

func (cc *CreatorController) GetMine(c *gin.Context) {
	user := utils.GetUser(c)

	creator, err := cc.Creators.ForUser(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, cc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"creator": creator},
	})
}

func (cc *CreatorController) ListApplications(c *gin.Context) {
	limit := utils.QueryInt(c, "limit", defaultListLimit, maxListLimit)

	creators, err := cc.Creators.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		respondError(c, cc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       gin.H{"creators": creators},
		Pagination: &PaginationMeta{Limit: limit, Count: len(creators)},
	})
}

func (cc *CreatorController) Review(c *gin.Context) {
	var req services.ReviewCreatorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	creator, err := cc.Creators.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, cc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"creator": creator},
		Message: "Creator " + creator.Status,
	})
}
