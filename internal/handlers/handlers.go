package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/insightly-hq/insightly/internal/middleware"
	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/internal/services"
)

// principalFrom builds the explicit principal every service call takes from
// the authenticated request context.
func principalFrom(c *gin.Context) services.Principal {
	return services.Principal{
		UserID: middleware.GetUserID(c),
		Role:   models.RoleName(middleware.GetRole(c)),
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
