package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

type FlagController struct {
	Flags *services.FlagGate
	Log   logrus.FieldLogger
}

func NewFlagController(flags *services.FlagGate, log logrus.FieldLogger) *FlagController {
	return &FlagController{Flags: flags, Log: log}
}

type SetFlagRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// GetFlag answers through the gate, so unknown flags read as disabled.
func (fc *FlagController) GetFlag(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"name":    name,
		"enabled": fc.Flags.IsEnabled(c.Request.Context(), name),
	})
}

func (fc *FlagController) ListFlags(c *gin.Context) {
	flags, err := fc.Flags.List(c.Request.Context())
	if err != nil {
		respondError(c, fc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"flags": flags},
	})
}

func (fc *FlagController) SetFlag(c *gin.Context) {
	var req SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	flag, err := fc.Flags.Set(c.Request.Context(), c.Param("name"), *req.Enabled)
	if err != nil {
		respondError(c, fc.Log, err)
		return
	}

	fields := logrus.Fields{"flag": flag.Name, "enabled": flag.Enabled}
	if user := utils.GetUser(c); user != nil {
		fields["user_id"] = user.UserID
	}
	fc.Log.WithFields(fields).Info("feature flag updated")

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"flag": flag},
	})
}
