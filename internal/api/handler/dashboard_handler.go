package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnukaFonseka/tution-management-app/internal/service"
	"github.com/AnukaFonseka/tution-management-app/pkg/response"
)

// DashboardHandler 仪表盘模块 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetOverview 获取仪表盘总览数据
// GET /api/v1/dashboard
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardSvc.Overview(c.Request.Context(), time.Now())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, overview)
}
