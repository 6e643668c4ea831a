package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/insightly-hq/insightly/internal/services"
	"github.com/insightly-hq/insightly/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db),
	}
}

// GetSnapshot returns the admin overview counts and shortlists
// GET /api/dashboard
func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	snap, err := h.dashboardService.Snapshot()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, snap)
}
