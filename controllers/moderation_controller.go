package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

// ModerationController serves the admin report queue and ban list. Routes
// sit behind middleware.AdminGuard.
type ModerationController struct {
	Reports    *services.ReportService
	Dispatcher *services.Dispatcher
	Bans       *services.BanService
	Log        logrus.FieldLogger
}

func NewModerationController(reports *services.ReportService, dispatcher *services.Dispatcher, bans *services.BanService, log logrus.FieldLogger) *ModerationController {
	return &ModerationController{Reports: reports, Dispatcher: dispatcher, Bans: bans, Log: log}
}

func (mc *ModerationController) ListReports(c *gin.Context) {
	limit := utils.QueryInt(c, "limit", defaultListLimit, maxListLimit)

	reports, err := mc.Reports.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		respondError(c, mc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       gin.H{"reports": reports},
		Pagination: &PaginationMeta{Limit: limit, Count: len(reports)},
	})
}

func (mc *ModerationController) HideContent(c *gin.Context) {
	user := utils.GetUser(c)

	report, err := mc.Dispatcher.Hide(c.Request.Context(), c.Param("id"), user.UserID)
	if err != nil {
		respondError(c, mc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"report": report},
		Message: "Content hidden",
	})
}

func (mc *ModerationController) BanActor(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.BanActorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	report, ban, err := mc.Dispatcher.BanActor(c.Request.Context(), c.Param("id"), user.UserID, req)
	if err != nil {
		respondError(c, mc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"report": report, "ban": ban},
		Message: "User banned",
	})
}

func (mc *ModerationController) DismissReport(c *gin.Context) {
	user := utils.GetUser(c)

	report, err := mc.Dispatcher.Dismiss(c.Request.Context(), c.Param("id"), user.UserID)
	if err != nil {
		respondError(c, mc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"report": report},
		Message: "Report dismissed",
	})
}

func (mc *ModerationController) ListBans(c *gin.Context) {
	limit := utils.QueryInt(c, "limit", defaultListLimit, maxListLimit)

	bans, err := mc.Bans.ListActive(c.Request.Context(), limit)
	if err != nil {
		respondError(c, mc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       gin.H{"bans": bans},
		Pagination: &PaginationMeta{Limit: limit, Count: len(bans)},
	})
}

func (mc *ModerationController) IssueBan(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.IssueBanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	ban, err := mc.Bans.Issue(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, mc.Log, err)
		return
	}

	mc.Log.WithFields(logrus.Fields{
		"ban_id":    ban.ID,
		"actor_id":  ban.ActorID,
		"issued_by": user.UserID,
	}).Info("ban issued")

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    gin.H{"ban": ban},
		Message: "User banned",
	})
}

func (mc *ModerationController) RemoveBan(c *gin.Context) {
	ban, err := mc.Bans.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, mc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"ban": ban},
		Message: "Ban removed",
	})
}
