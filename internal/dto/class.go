package dto

// ── 班级模块 DTO ──

// ScheduleInput 上课时间输入
type ScheduleInput struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time"  binding:"required"` // "15:30"
	Duration  int    `json:"duration"    binding:"required,min=15,max=480"`
}

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name       string          `json:"name"        binding:"required,min=1,max=100"`
	Grades     []int           `json:"grades"      binding:"required,min=1,dive,min=1,max=13"`
	SubjectIDs []string        `json:"subject_ids" binding:"required,min=1,dive,uuid"`
	ClassType  string          `json:"class_type"  binding:"required,oneof=Individual Group Extra Paper Revision Theory"`
	Fee        string          `json:"fee"         binding:"required"` // 十进制字符串
	Schedules  []ScheduleInput `json:"schedules"   binding:"required,min=1,dive"`
}

// UpdateClassRequest 更新班级请求
// Schedules 非 nil 时全量替换上课时间
type UpdateClassRequest struct {
	Name       *string          `json:"name"        binding:"omitempty,min=1,max=100"`
	Grades     *[]int           `json:"grades"      binding:"omitempty,min=1,dive,min=1,max=13"`
	SubjectIDs *[]string        `json:"subject_ids" binding:"omitempty,min=1,dive,uuid"`
	ClassType  *string          `json:"class_type"  binding:"omitempty,oneof=Individual Group Extra Paper Revision Theory"`
	Fee        *string          `json:"fee"`
	Schedules  *[]ScheduleInput `json:"schedules"   binding:"omitempty,min=1,dive"`
}

// ClassScheduleResponse 上课时间响应
type ClassScheduleResponse struct {
	ID        string `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

// ClassResponse 班级信息响应
type ClassResponse struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Grades        []int                   `json:"grades"`
	SubjectIDs    []string                `json:"subject_ids"`
	ClassType     string                  `json:"class_type"`
	Fee           string                  `json:"fee"`
	Schedules     []ClassScheduleResponse `json:"schedules"`
	StudentCount  int64                   `json:"student_count"`
	CreatedAt     string                  `json:"created_at"`
	UpdatedAt     string                  `json:"updated_at"`
}

// ClassRosterEntry 班级在读学生及指定月份缴费状态
type ClassRosterEntry struct {
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	StudentGrade  string  `json:"student_grade"`
	CustomFee     *string `json:"custom_fee,omitempty"`
	PaymentID     *string `json:"payment_id,omitempty"` // 该月无缴费记录时为空
	PaymentStatus string  `json:"payment_status"`       // 无记录时视为 pending
}

// ClassDetailResponse 班级详情响应
type ClassDetailResponse struct {
	ClassResponse
	Roster      []ClassRosterEntry   `json:"roster"`
	Assignments []AssignmentResponse `json:"assignments"`
}
