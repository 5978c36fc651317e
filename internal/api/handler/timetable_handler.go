package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnukaFonseka/tution-management-app/internal/service"
	"github.com/AnukaFonseka/tution-management-app/pkg/response"
)

// TimetableHandler 课程表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// GetWeeklyTimetable 获取整周课程表（固定七天，0=周日）
// GET /api/v1/timetable
func (h *TimetableHandler) GetWeeklyTimetable(c *gin.Context) {
	timetable, err := h.timetableSvc.Weekly(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, timetable)
}

// GetDayTimetable 获取某一天的课程，day 缺省为今天
// GET /api/v1/timetable/day?day=1
func (h *TimetableHandler) GetDayTimetable(c *gin.Context) {
	day := int(time.Now().Weekday())
	if v := c.Query("day"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 || d > 6 {
			response.BadRequest(c, 10001, "day 参数无效")
			return
		}
		day = d
	}

	entries, err := h.timetableSvc.Day(c.Request.Context(), day)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, entries)
}
