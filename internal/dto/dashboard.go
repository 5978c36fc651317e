package dto

// ── 仪表盘模块 DTO ──

// DashboardStats 仪表盘汇总数据
type DashboardStats struct {
	TotalStudents   int64  `json:"total_students"`
	TotalClasses    int64  `json:"total_classes"`
	MonthRevenue    string `json:"month_revenue"`    // 当月已收金额
	PendingAmount   string `json:"pending_amount"`   // 当月待收金额
	PendingPayments int64  `json:"pending_payments"` // 当月待收笔数
}

// ClassDistributionEntry 按班级类型统计的班级数量
type ClassDistributionEntry struct {
	ClassType string `json:"class_type"`
	Count     int64  `json:"count"`
}

// RecentPaymentEntry 仪表盘最近收款记录
type RecentPaymentEntry struct {
	PaymentID   string `json:"payment_id"`
	StudentName string `json:"student_name"`
	ClassName   string `json:"class_name"`
	Amount      string `json:"amount"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	PaidAt      string `json:"paid_at"`
}

// DashboardResponse 仪表盘完整响应
type DashboardResponse struct {
	Stats             DashboardStats           `json:"stats"`
	ClassDistribution []ClassDistributionEntry `json:"class_distribution"`
	RecentPayments    []RecentPaymentEntry     `json:"recent_payments"`
}
