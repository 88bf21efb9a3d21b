package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/zchut-miluim/mentoring-api/internal/middleware"
	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/service"
)

// currentClaims extracts the JWT claims attached by the auth middleware.
func currentClaims(c *gin.Context) *models.JWTClaims {
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

// currentActor builds the session-operation actor from the JWT claims.
func currentActor(c *gin.Context) (service.Actor, bool) {
	claims := currentClaims(c)
	if claims == nil {
		return service.Actor{}, false
	}
	return service.Actor{ID: claims.UserID, Role: claims.Role}, true
}

func paginationFrom(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
