package dto

// ── 作业模块 DTO ──

// CreateAssignmentRequest 创建作业请求
type CreateAssignmentRequest struct {
	ClassID          string  `json:"class_id"           binding:"required,uuid"`
	Name             string  `json:"name"               binding:"required,min=1,max=200"`
	AssignmentTypeID *string `json:"assignment_type_id" binding:"omitempty,uuid"`
	GivenDate        string  `json:"given_date"         binding:"required"` // "2026-03-01"
	Deadline         string  `json:"deadline"           binding:"required"`
	DocumentURL      *string `json:"document_url"       binding:"omitempty,url"`
	Description      *string `json:"description"`
	TotalMarks       int     `json:"total_marks"        binding:"required,min=1"`
}

// UpdateAssignmentRequest 更新作业请求
type UpdateAssignmentRequest struct {
	Name             *string `json:"name"               binding:"omitempty,min=1,max=200"`
	AssignmentTypeID *string `json:"assignment_type_id" binding:"omitempty,uuid"`
	GivenDate        *string `json:"given_date"`
	Deadline         *string `json:"deadline"`
	DocumentURL      *string `json:"document_url"       binding:"omitempty,url"`
	Description      *string `json:"description"`
	TotalMarks       *int    `json:"total_marks"        binding:"omitempty,min=1"`
}

// GradeSubmissionRequest 批改作业提交请求
type GradeSubmissionRequest struct {
	MarksObtained *int    `json:"marks_obtained" binding:"omitempty,min=0"`
	Remarks       *string `json:"remarks"`
	Submitted     *bool   `json:"submitted"` // true 记录提交时间，false 清除
}

// SubmissionResponse 作业提交响应
type SubmissionResponse struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name,omitempty"`
	MarksObtained *int    `json:"marks_obtained,omitempty"`
	Remarks       *string `json:"remarks,omitempty"`
	SubmittedAt   *string `json:"submitted_at,omitempty"`
}

// AssignmentResponse 作业信息响应
type AssignmentResponse struct {
	ID               string               `json:"id"`
	ClassID          string               `json:"class_id"`
	Name             string               `json:"name"`
	AssignmentTypeID *string              `json:"assignment_type_id,omitempty"`
	TypeName         string               `json:"type_name,omitempty"`
	GivenDate        string               `json:"given_date"`
	Deadline         string               `json:"deadline"`
	DocumentURL      *string              `json:"document_url,omitempty"`
	Description      *string              `json:"description,omitempty"`
	TotalMarks       int                  `json:"total_marks"`
	Submissions      []SubmissionResponse `json:"submissions,omitempty"`
}
