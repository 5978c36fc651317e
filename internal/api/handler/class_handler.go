package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/service"
	"github.com/AnukaFonseka/tution-management-app/pkg/response"
)

// ClassHandler 班级模块 HTTP 处理器
type ClassHandler struct {
	classSvc service.ClassService
}

// NewClassHandler 创建 ClassHandler
func NewClassHandler(classSvc service.ClassService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc}
}

// CreateClass 创建班级
// POST /api/v1/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	class, err := h.classSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.Created(c, class)
}

// GetClass 获取班级详情（含指定月份花名册缴费状态，默认当月）
// GET /api/v1/classes/:id?month=9&year=2026
func (h *ClassHandler) GetClass(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	month, year, ok := monthYearQuery(c)
	if !ok {
		return
	}

	class, err := h.classSvc.GetByID(c.Request.Context(), id, month, year)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, class)
}

// ListClasses 班级列表（含在读人数）
// GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": classes})
}

// UpdateClass 更新班级信息，费用变化时同步调整待缴月份金额
// PUT /api/v1/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	class, err := h.classSvc.Update(c.Request.Context(), id, &req, time.Now())
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, class)
}

// DeleteClass 删除班级（级联删除时段、选课、缴费和作业）
// DELETE /api/v1/classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	if err := h.classSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleClassError 统一处理班级模块业务错误
func (h *ClassHandler) handleClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 21001, "班级不存在")
	case errors.Is(err, service.ErrClassFeeInvalid):
		response.BadRequest(c, 21002, "班级费用格式不正确")
	case errors.Is(err, service.ErrClassSubjectUnknown):
		response.BadRequest(c, 21003, "所选科目不存在")
	default:
		response.InternalError(c)
	}
}

// monthYearQuery 解析 month/year 查询参数，缺省为当前月份
func monthYearQuery(c *gin.Context) (month, year int, ok bool) {
	now := time.Now()
	month, year = int(now.Month()), now.Year()

	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			response.BadRequest(c, 10001, "month 参数无效")
			return 0, 0, false
		}
		month = m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 2100 {
			response.BadRequest(c, 10001, "year 参数无效")
			return 0, 0, false
		}
		year = y
	}
	return month, year, true
}
