package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

type InteractionController struct {
	Reactions *services.ReactionService
	Reports   *services.ReportService
	Log       logrus.FieldLogger
}

func NewInteractionController(reactions *services.ReactionService, reports *services.ReportService, log logrus.FieldLogger) *InteractionController {
	return &InteractionController{Reactions: reactions, Reports: reports, Log: log}
}

// ReactToComment godoc
// @Summary Add, switch or remove a reaction on a comment
// @Description Sending the current reaction type again removes it
// @Tags interactions
// @Accept json
// @Produce json
// @Success 200 {object} StandardResponse
// @Success 201 {object} StandardResponse
// @Router /comments/react [post]
func (ic *InteractionController) ReactToComment(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.ReactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	result, err := ic.Reactions.Toggle(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, ic.Log, err)
		return
	}

	status := http.StatusOK
	if result.Action == services.ReactionAdded {
		status = http.StatusCreated
	}
	c.JSON(status, StandardResponse{
		Success: true,
		Data:    result,
	})
}

// CreateReport godoc
// @Summary Report a comment, creator post or user
// @Tags interactions
// @Accept json
// @Produce json
// @Success 201 {object} StandardResponse
// @Router /reports [post]
func (ic *InteractionController) CreateReport(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.CreateReportInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	report, err := ic.Reports.Create(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, ic.Log, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    gin.H{"report": report},
		Message: "Report submitted successfully",
	})
}
