package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation:  http.StatusBadRequest,
	services.KindAuth:        http.StatusUnauthorized,
	services.KindForbidden:   http.StatusForbidden,
	services.KindNotFound:    http.StatusNotFound,
	services.KindConflict:    http.StatusConflict,
	services.KindRateLimited: http.StatusTooManyRequests,
	services.KindUnavailable: http.StatusServiceUnavailable,
	services.KindUpstream:    http.StatusBadGateway,
	services.KindStore:       http.StatusInternalServerError,
}

// respondError writes err as {"error": message}. Causes behind store and
// upstream failures are logged, never returned.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	kind := services.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := "Internal server error"
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		fields := logrus.Fields{
			"kind":  kind.String(),
			"route": c.FullPath(),
			"error": err.Error(),
		}
		if user := utils.GetUser(c); user != nil {
			fields["user_id"] = user.UserID
		}
		log.WithFields(fields).Error(msg)
	}

	c.JSON(status, gin.H{"error": msg})
}

func invalidBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}
