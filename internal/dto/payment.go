package dto

// ── 缴费模块 DTO ──

// UpdatePaymentStatusRequest 更新缴费状态请求
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid overdue"`
}

// EnsurePaymentRequest 班级点名页标记缴费：记录不存在时按需创建
type EnsurePaymentRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	Month     int    `json:"month"      binding:"required,min=1,max=12"`
	Year      int    `json:"year"       binding:"required,min=2000,max=2100"`
	Status    string `json:"status"     binding:"required,oneof=pending paid overdue"`
}

// PaymentResponse 缴费记录响应
type PaymentResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name,omitempty"`
	ClassID     string  `json:"class_id"`
	ClassName   string  `json:"class_name,omitempty"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Amount      string  `json:"amount"`
	Status      string  `json:"status"`
	PaidAt      *string `json:"paid_at,omitempty"`
}

// PaymentStats 当期缴费统计
type PaymentStats struct {
	Total       int    `json:"total"`
	Paid        int    `json:"paid"`
	Pending     int    `json:"pending"`
	Overdue     int    `json:"overdue"`
	TotalAmount string `json:"total_amount"`
	PaidAmount  string `json:"paid_amount"`
}

// PaymentListResponse 缴费列表响应（含统计）
type PaymentListResponse struct {
	List  []PaymentResponse `json:"list"`
	Stats PaymentStats      `json:"stats"`
}
