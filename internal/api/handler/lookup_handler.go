package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/service"
	"github.com/AnukaFonseka/tution-management-app/pkg/response"
)

// LookupHandler 字典表模块 HTTP 处理器（年级 / 科目 / 作业类型）
type LookupHandler struct {
	lookupSvc service.LookupService
}

// NewLookupHandler 创建 LookupHandler
func NewLookupHandler(lookupSvc service.LookupService) *LookupHandler {
	return &LookupHandler{lookupSvc: lookupSvc}
}

// ── 年级 ──

// CreateGrade 创建年级，追加到排序末尾
// POST /api/v1/grades
func (h *LookupHandler) CreateGrade(c *gin.Context) {
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grade, err := h.lookupSvc.CreateGrade(c.Request.Context(), &req)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.Created(c, grade)
}

// ListGrades 年级列表，active_only=true 时仅返回启用项
// GET /api/v1/grades?active_only=true
func (h *LookupHandler) ListGrades(c *gin.Context) {
	grades, err := h.lookupSvc.ListGrades(c.Request.Context(), c.Query("active_only") == "true")
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": grades})
}

// UpdateGrade 更新年级（名称/启用状态）
// PUT /api/v1/grades/:id
func (h *LookupHandler) UpdateGrade(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "年级ID不能为空")
		return
	}

	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grade, err := h.lookupSvc.UpdateGrade(c.Request.Context(), id, &req)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.OK(c, grade)
}

// ReorderGrade 年级上移/下移一位，已在边界时不变
// PUT /api/v1/grades/:id/reorder
func (h *LookupHandler) ReorderGrade(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "年级ID不能为空")
		return
	}

	var req dto.ReorderGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.lookupSvc.ReorderGrade(c.Request.Context(), id, &req); err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteGrade 删除年级
// DELETE /api/v1/grades/:id
func (h *LookupHandler) DeleteGrade(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "年级ID不能为空")
		return
	}

	if err := h.lookupSvc.DeleteGrade(c.Request.Context(), id); err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 科目 ──

// CreateSubject 创建科目
// POST /api/v1/subjects
func (h *LookupHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.lookupSvc.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.Created(c, subject)
}

// ListSubjects 科目列表
// GET /api/v1/subjects
func (h *LookupHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.lookupSvc.ListSubjects(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": subjects})
}

// UpdateSubject 更新科目
// PUT /api/v1/subjects/:id
func (h *LookupHandler) UpdateSubject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "科目ID不能为空")
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.lookupSvc.UpdateSubject(c.Request.Context(), id, &req)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.OK(c, subject)
}

// DeleteSubject 删除科目
// DELETE /api/v1/subjects/:id
func (h *LookupHandler) DeleteSubject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "科目ID不能为空")
		return
	}

	if err := h.lookupSvc.DeleteSubject(c.Request.Context(), id); err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 作业类型 ──

// CreateAssignmentType 创建作业类型
// POST /api/v1/assignment-types
func (h *LookupHandler) CreateAssignmentType(c *gin.Context) {
	var req dto.CreateAssignmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	at, err := h.lookupSvc.CreateAssignmentType(c.Request.Context(), &req)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.Created(c, at)
}

// ListAssignmentTypes 作业类型列表
// GET /api/v1/assignment-types?active_only=true
func (h *LookupHandler) ListAssignmentTypes(c *gin.Context) {
	types, err := h.lookupSvc.ListAssignmentTypes(c.Request.Context(), c.Query("active_only") == "true")
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": types})
}

// UpdateAssignmentType 更新作业类型
// PUT /api/v1/assignment-types/:id
func (h *LookupHandler) UpdateAssignmentType(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作业类型ID不能为空")
		return
	}

	var req dto.UpdateAssignmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	at, err := h.lookupSvc.UpdateAssignmentType(c.Request.Context(), id, &req)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.OK(c, at)
}

// DeleteAssignmentType 删除作业类型
// DELETE /api/v1/assignment-types/:id
func (h *LookupHandler) DeleteAssignmentType(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作业类型ID不能为空")
		return
	}

	if err := h.lookupSvc.DeleteAssignmentType(c.Request.Context(), id); err != nil {
		h.handleLookupError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleLookupError 统一处理字典表模块业务错误
func (h *LookupHandler) handleLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 25001, "年级不存在")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 25002, "科目不存在")
	case errors.Is(err, service.ErrAssignmentTypeNotFound):
		response.NotFound(c, 25003, "作业类型不存在")
	default:
		response.InternalError(c)
	}
}
