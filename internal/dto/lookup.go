package dto

// ── 基础数据模块 DTO ──

// CreateGradeRequest 创建年级请求
type CreateGradeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// UpdateGradeRequest 更新年级请求
type UpdateGradeRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=50"`
	IsActive *bool   `json:"is_active"`
}

// ReorderGradeRequest 年级排序调整请求
type ReorderGradeRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// GradeResponse 年级响应
type GradeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description"`
}

// UpdateSubjectRequest 更新科目请求
type UpdateSubjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// SubjectResponse 科目响应
type SubjectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateAssignmentTypeRequest 创建作业类型请求
type CreateAssignmentTypeRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description"`
}

// UpdateAssignmentTypeRequest 更新作业类型请求
type UpdateAssignmentTypeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// AssignmentTypeResponse 作业类型响应
type AssignmentTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}
