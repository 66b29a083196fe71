package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vhtran/scorekeeper-api/internal/middleware"
	"github.com/vhtran/scorekeeper-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func teacherFromContext(c *gin.Context) (int64, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.TeacherID == 0 {
		return 0, false
	}
	return claims.TeacherID, true
}
