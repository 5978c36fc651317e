package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
	"github.com/AnukaFonseka/tution-management-app/internal/service"
	"github.com/AnukaFonseka/tution-management-app/pkg/response"
)

// PaymentHandler 缴费模块 HTTP 处理器
type PaymentHandler struct {
	paymentSvc service.PaymentService
}

// NewPaymentHandler 创建 PaymentHandler
func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// ListPayments 缴费记录列表（支持学生/班级/月份/状态筛选，附汇总统计）
// GET /api/v1/payments?student_id=&class_id=&month=&year=&status=
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	filter := repository.PaymentFilter{
		StudentID: c.Query("student_id"),
		ClassID:   c.Query("class_id"),
		Status:    c.Query("status"),
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			response.BadRequest(c, 10001, "month 参数无效")
			return
		}
		filter.Month = &m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 2100 {
			response.BadRequest(c, 10001, "year 参数无效")
			return
		}
		filter.Year = &y
	}

	result, err := h.paymentSvc.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GetPayment 获取缴费记录详情
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "缴费记录ID不能为空")
		return
	}

	payment, err := h.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	response.OK(c, payment)
}

// UpdatePaymentStatus 更新缴费状态（标记已缴/撤销）
// PUT /api/v1/payments/:id/status
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "缴费记录ID不能为空")
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	payment, err := h.paymentSvc.UpdateStatus(c.Request.Context(), id, &req, time.Now())
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	response.OK(c, payment)
}

// EnsurePayment 班级点名页标记缴费，记录不存在时按需创建
// POST /api/v1/classes/:id/payments
func (h *PaymentHandler) EnsurePayment(c *gin.Context) {
	classID := c.Param("id")
	if classID == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	var req dto.EnsurePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	payment, err := h.paymentSvc.Ensure(c.Request.Context(), classID, &req, time.Now())
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	response.OK(c, payment)
}

// handlePaymentError 统一处理缴费模块业务错误
func (h *PaymentHandler) handlePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		response.NotFound(c, 23001, "缴费记录不存在")
	case errors.Is(err, service.ErrPaymentNotEnrolled):
		response.BadRequest(c, 23002, "该学生未选此班级")
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 21001, "班级不存在")
	default:
		response.InternalError(c)
	}
}
