package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/service"
	"github.com/AnukaFonseka/tution-management-app/pkg/response"
)

// AssignmentHandler 作业模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// CreateAssignment 布置作业，为当前在读学生批量生成提交记录
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, assignment)
}

// GetAssignment 获取作业详情（含全部提交记录）
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作业ID不能为空")
		return
	}

	assignment, err := h.assignmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// ListAssignmentsByClass 班级作业列表
// GET /api/v1/classes/:id/assignments
func (h *AssignmentHandler) ListAssignmentsByClass(c *gin.Context) {
	classID := c.Param("id")
	if classID == "" {
		response.BadRequest(c, 10001, "班级ID不能为空")
		return
	}

	assignments, err := h.assignmentSvc.ListByClass(c.Request.Context(), classID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": assignments})
}

// UpdateAssignment 更新作业
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作业ID不能为空")
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.assignmentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// DeleteAssignment 删除作业（级联删除提交记录）
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作业ID不能为空")
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// GradeSubmission 批改作业提交（录入得分/备注/提交状态）
// PUT /api/v1/submissions/:id
func (h *AssignmentHandler) GradeSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "提交记录ID不能为空")
		return
	}

	var req dto.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	submission, err := h.assignmentSvc.GradeSubmission(c.Request.Context(), id, &req, time.Now())
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, submission)
}

// handleAssignmentError 统一处理作业模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 24001, "作业不存在")
	case errors.Is(err, service.ErrAssignmentDateInvalid):
		response.BadRequest(c, 24002, "作业日期无效")
	case errors.Is(err, service.ErrAssignmentTypeUnknown):
		response.BadRequest(c, 24003, "作业类型不存在")
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 24004, "作业提交记录不存在")
	case errors.Is(err, service.ErrSubmissionMarksInvalid):
		response.BadRequest(c, 24005, "得分不能超过总分")
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 21001, "班级不存在")
	default:
		response.InternalError(c)
	}
}
