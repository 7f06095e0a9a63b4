package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

type UserController struct {
	Profiles *services.ProfileService
	Log      logrus.FieldLogger
}

func NewUserController(profiles *services.ProfileService, log logrus.FieldLogger) *UserController {
	return &UserController{Profiles: profiles, Log: log}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	user := utils.GetUser(c)

	profile, err := uc.Profiles.Get(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"profile": profile,
			"email":   user.Email,
		},
	})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	profile, err := uc.Profiles.Upsert(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"profile": profile},
		Message: "Profile updated successfully",
	})
}
