package dto

// ── 学生模块 DTO ──

// EnrollmentInput 期望选课项（班级 + 可选自定义月费）
// CustomFee 为空字符串或缺省表示使用班级默认费用
type EnrollmentInput struct {
	ClassID   string  `json:"class_id"   binding:"required,uuid"`
	CustomFee *string `json:"custom_fee" binding:"omitempty"` // 十进制字符串，如 "5000.00"
}

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	Name        string            `json:"name"        binding:"required,min=1,max=100"`
	Grade       string            `json:"grade"       binding:"required,min=1,max=20"`
	Phone       *string           `json:"phone"       binding:"omitempty,max=20"`
	ParentName  *string           `json:"parent_name" binding:"omitempty,max=100"`
	Enrollments []EnrollmentInput `json:"enrollments" binding:"omitempty,dive"`
}

// UpdateStudentRequest 更新学生请求
// Enrollments 为 nil 时不触发选课调整；空数组表示退掉全部班级
type UpdateStudentRequest struct {
	Name        *string            `json:"name"        binding:"omitempty,min=1,max=100"`
	Grade       *string            `json:"grade"       binding:"omitempty,min=1,max=20"`
	Phone       *string            `json:"phone"       binding:"omitempty,max=20"`
	ParentName  *string            `json:"parent_name" binding:"omitempty,max=100"`
	Enrollments *[]EnrollmentInput `json:"enrollments" binding:"omitempty,dive"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Grade      string  `json:"grade"`
	Phone      *string `json:"phone,omitempty"`
	ParentName *string `json:"parent_name,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// EnrolledClassResponse 学生已选班级响应
type EnrolledClassResponse struct {
	ClassID   string                  `json:"class_id"`
	ClassName string                  `json:"class_name"`
	ClassType string                  `json:"class_type"`
	Fee       string                  `json:"fee"`
	CustomFee *string                 `json:"custom_fee,omitempty"`
	Schedules []ClassScheduleResponse `json:"schedules"`
}

// StudentDetailResponse 学生详情响应（含选课与最近缴费记录）
type StudentDetailResponse struct {
	StudentResponse
	EnrolledClasses []EnrolledClassResponse `json:"enrolled_classes"`
	RecentPayments  []PaymentResponse       `json:"recent_payments"`
}
