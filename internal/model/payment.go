package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 缴费状态枚举
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// Payment 月度缴费表 — 对应 payments
// (student_id, class_id, month, year) 唯一
type Payment struct {
	ID        string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID string          `gorm:"type:uuid;not null;uniqueIndex:uniq_payment"    json:"student_id"`
	ClassID   string          `gorm:"type:uuid;not null;uniqueIndex:uniq_payment"    json:"class_id"`
	Month     int             `gorm:"type:smallint;not null;uniqueIndex:uniq_payment" json:"month"` // 1-12
	Year      int             `gorm:"not null;uniqueIndex:uniq_payment"              json:"year"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"amount"`
	Status    string          `gorm:"type:varchar(10);not null;default:'pending'"    json:"status"`
	PaidAt    *time.Time      `gorm:""                                               json:"paid_at,omitempty"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Class   *Class   `gorm:"foreignKey:ClassID;references:ID"   json:"class,omitempty"`
}

// TableName 指定表名
func (Payment) TableName() string { return "payments" }
