package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
)

// AuthController guards the hosted provider's sign-in form against brute
// force. Sign-in itself happens at the provider.
type AuthController struct {
	Guard *services.AuthAttemptGuard
	Log   logrus.FieldLogger
}

func NewAuthController(guard *services.AuthAttemptGuard, log logrus.FieldLogger) *AuthController {
	return &AuthController{Guard: guard, Log: log}
}

func (ac *AuthController) CheckRateLimit(c *gin.Context) {
	var req services.AuthAttemptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifier required"})
		return
	}

	result, err := ac.Guard.Check(c.Request.Context(), req)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AuthController) RecordAttempt(c *gin.Context) {
	var req services.AuthAttemptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifier required"})
		return
	}

	if err := ac.Guard.Record(c.Request.Context(), req); err != nil {
		respondError(c, ac.Log, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true})
}
